package views

import (
	"fmt"
	"time"
)

// defaultViews builds the seed catalog. Each body is a complete,
// parameterless statement against the conversation-entry glob.
func defaultViews(glob string, now time.Time) map[string]Definition {
	seeds := []struct {
		name        string
		description string
		sqlQuery    string
		tags        []string
	}{
		{
			name:        "interactions_per_day",
			description: "Daily count of conversation interactions",
			sqlQuery: fmt.Sprintf(
				`SELECT date, COUNT(*) AS "Total Interactions", COUNT(DISTINCT session_id) AS "Unique Sessions", AVG(interaction_id) AS "Avg Interactions per Session" FROM '%s' GROUP BY date ORDER BY date DESC`,
				glob),
			tags: []string{"daily", "analytics", "summary"},
		},
		{
			name:        "popular_actions",
			description: "Most common action types in conversations",
			sqlQuery: fmt.Sprintf(
				`SELECT action AS "Action Type", COUNT(*) AS "Count", ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS "Percentage" FROM '%s' WHERE action IS NOT NULL GROUP BY action ORDER BY COUNT(*) DESC`,
				glob),
			tags: []string{"actions", "popular", "percentage"},
		},
		{
			name:        "active_sessions",
			description: "Sessions with multiple interactions (more engaging conversations)",
			sqlQuery: fmt.Sprintf(
				`SELECT session_id, COUNT(*) AS "Total Interactions", MIN(question_created) AS "First Question", MAX(answer_created) AS "Last Answer", EXTRACT(EPOCH FROM (MAX(answer_created) - MIN(question_created))) / 60 AS "Duration (minutes)" FROM '%s' GROUP BY session_id HAVING COUNT(*) > 1 ORDER BY COUNT(*) DESC`,
				glob),
			tags: []string{"sessions", "engagement", "duration"},
		},
		{
			name:        "recent_conversations",
			description: "Conversations from the last 7 days",
			sqlQuery: fmt.Sprintf(
				`SELECT date, session_id, interaction_id, LEFT(question, 50) || '...' AS "Question Preview", action AS "Action Type", user_id, location_id AS "Store Location" FROM '%s' WHERE date >= CURRENT_DATE - INTERVAL 7 DAY ORDER BY question_created DESC`,
				glob),
			tags: []string{"recent", "preview", "last-week"},
		},
		{
			name:        "location_activity",
			description: "Conversation activity by store location",
			sqlQuery: fmt.Sprintf(
				`SELECT location_id AS "Store Location", region_id AS "Region", group_id AS "Group", district_id AS "District", COUNT(*) AS "Total Conversations", COUNT(DISTINCT session_id) AS "Unique Sessions", COUNT(DISTINCT user_id) AS "Unique Users" FROM '%s' WHERE location_id IS NOT NULL GROUP BY location_id, region_id, group_id, district_id ORDER BY COUNT(*) DESC`,
				glob),
			tags: []string{"location", "geography", "stores"},
		},
	}

	defs := make(map[string]Definition, len(seeds))
	for _, seed := range seeds {
		defs[seed.name] = Definition{
			Name:        seed.name,
			Description: seed.description,
			SQLQuery:    seed.sqlQuery,
			Tags:        seed.tags,
			Created:     now,
			Updated:     now,
		}
	}
	return defs
}
