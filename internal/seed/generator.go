// Package seed generates a synthetic retail conversation corpus and
// uploads it as hive-partitioned parquet files.
package seed

import (
	"fmt"
	"math/rand"
	"time"
)

type Source struct {
	Name  string
	Score float32
}

// Entry is one question/answer interaction. Date and Hour are derived
// from QuestionCreated and drive the partition layout only; they are
// never written as file columns.
type Entry struct {
	EntryID         string
	SessionID       string
	InteractionID   int32
	Date            time.Time
	Hour            int
	Question        string
	QuestionCreated time.Time
	Answer          string
	AnswerCreated   time.Time
	Action          string
	UserID          string
	LocationID      int32
	RegionID        int32
	GroupID         int32
	DistrictID      int32
	UserRoles       []string
	Sources         []Source
}

type Generator struct {
	rnd     *rand.Rand
	session int
	now     func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Generate produces the entries of `sessions` conversations. Each
// session has 1 to 8 interactions spread over the past 90 days, with
// attributes held constant within the session.
func (g *Generator) Generate(sessions int) []Entry {
	end := g.now()
	start := end.AddDate(0, 0, -90)
	window := int64(end.Sub(start) / time.Second)

	var entries []Entry
	for i := 0; i < sessions; i++ {
		g.session++
		sessionID := fmt.Sprintf("session_%06d", g.session)
		interactions := g.rnd.Intn(8) + 1
		at := start.Add(time.Duration(g.rnd.Int63n(window)) * time.Second)

		userID := fmt.Sprintf("user_%d", g.rnd.Intn(90000)+10000)
		locationID := int32(g.rnd.Intn(499) + 1001)
		regionID := int32(g.rnd.Intn(50) + 100)
		groupID := int32(g.rnd.Intn(15) + 10)
		districtID := int32(g.rnd.Intn(14) + 1)

		roles := []string{userRoles[g.rnd.Intn(len(userRoles))]}
		if g.rnd.Float64() < 0.3 {
			roles = append(roles, userRoles[g.rnd.Intn(len(userRoles))])
		}

		for interaction := 1; interaction <= interactions; interaction++ {
			if interaction > 1 {
				at = at.Add(time.Duration(g.rnd.Intn(5)+1) * time.Minute)
			}

			qa := g.rnd.Intn(len(retailQuestions))
			question := g.varyQuestion(retailQuestions[qa])
			questionCreated := at
			answerCreated := questionCreated.Add(time.Duration(g.rnd.Intn(30)+1) * time.Second)

			entries = append(entries, Entry{
				EntryID:         fmt.Sprintf("%s_%d", sessionID, interaction),
				SessionID:       sessionID,
				InteractionID:   int32(interaction),
				Date:            questionCreated.Truncate(24 * time.Hour),
				Hour:            questionCreated.Hour(),
				Question:        question,
				QuestionCreated: questionCreated,
				Answer:          retailAnswers[qa],
				AnswerCreated:   answerCreated,
				Action:          actions[g.rnd.Intn(len(actions))],
				UserID:          userID,
				LocationID:      locationID,
				RegionID:        regionID,
				GroupID:         groupID,
				DistrictID:      districtID,
				UserRoles:       roles,
				Sources:         g.pickSources(),
			})
		}
	}
	return entries
}

func (g *Generator) varyQuestion(question string) string {
	if g.rnd.Float64() < 0.2 {
		question = replaceFirst(question, "How do I", "Can you help me")
	}
	if g.rnd.Float64() < 0.1 {
		question += " Thanks!"
	}
	return question
}

// pickSources samples 1 to 3 distinct source documents and jitters
// their relevance scores, clamped to [0.1, 1.0].
func (g *Generator) pickSources() []Source {
	count := g.rnd.Intn(3) + 1
	picked := g.rnd.Perm(len(ragSources))[:count]

	sources := make([]Source, 0, count)
	for _, index := range picked {
		base := ragSources[index]
		score := base.score + float32(g.rnd.Float64()*0.2-0.1)
		if score < 0.1 {
			score = 0.1
		}
		if score > 1.0 {
			score = 1.0
		}
		sources = append(sources, Source{Name: base.name, Score: score})
	}
	return sources
}

func replaceFirst(s, prefix, replacement string) string {
	if len(prefix) <= len(s) && s[:len(prefix)] == prefix {
		return replacement + s[len(prefix):]
	}
	return s
}
