package seed

// Paired question/answer corpus for retail store operations. Index i
// of retailAnswers answers index i of retailQuestions.
var retailQuestions = []string{
	"How do I check the current stock level for item SKU 12345?",
	"What's the procedure for restocking shelves in Electronics?",
	"How do I handle damaged merchandise on the sales floor?",
	"Where can I find the inventory count for back-to-school supplies?",
	"What's the protocol when an item shows in stock but I can't find it?",
	"How do I request a stock transfer from another store?",
	"What do I do with overstock items that don't fit on shelves?",
	"How do I update inventory after receiving a truck delivery?",
	"How do I process a return without a receipt?",
	"What's the store policy on price matching with competitors?",
	"How do I handle a customer complaint about a broken product?",
	"Can customers return items purchased online to our store?",
	"What's the procedure for issuing store credit?",
	"How do I help a customer find a specific product in the store?",
	"What should I do if a customer wants to speak to a manager?",
	"How do I process an exchange for a different size?",
	"How do I apply a discount code at the register?",
	"What's the procedure for processing a void transaction?",
	"How do I handle when the card reader isn't working?",
	"What do I do if the barcode won't scan?",
	"How do I process a layaway payment?",
	"What's the maximum amount for a cash transaction?",
	"How do I check if a coupon is valid?",
	"What do I do when the register drawer gets stuck?",
	"What's the emergency procedure for a fire alarm?",
	"How do I report a safety hazard in the store?",
	"What should I do if I suspect shoplifting?",
	"Where are the first aid supplies located?",
	"What's the protocol for a medical emergency with a customer?",
	"How do I report a spill in an aisle?",
	"What do I do if the security cameras aren't working?",
	"Who do I contact for suspicious activity?",
	"How do I request time off in the system?",
	"What's the dress code for seasonal workers?",
	"How do I swap shifts with another team member?",
	"What do I do if I'm going to be late for my shift?",
	"How do I access my work schedule online?",
	"What's the procedure for calling out sick?",
	"How do I update my emergency contact information?",
	"What are the break policies for an 8-hour shift?",
	"What's the current promotion for back-to-school items?",
	"How do I set up holiday displays in my department?",
	"What items are on clearance this week?",
	"How do I apply seasonal pricing changes?",
	"What's the end date for the current sale?",
	"How do I handle pre-orders for holiday items?",
	"What's the markdown schedule for summer clothing?",
	"How do I activate promotional signage?",
}

var retailAnswers = []string{
	"You can check stock levels by scanning the item barcode in the MyDevice app or looking it up by SKU in the inventory system.",
	"For Electronics restocking, use the priority list in MyWork and focus on high-velocity items first. Check with your Team Lead for specific guidance.",
	"Damaged merchandise should be sorted into salvage bins and processed through the damaged goods system. Document the damage reason.",
	"Back-to-school inventory is tracked in seasonal reporting. Check the BTS dashboard in MyWork for current counts.",
	"If an item shows in stock but you can't locate it, check recent sales, the backroom, and create a research task in the system.",
	"Stock transfers require TL approval. Submit a request through Store to Store Transfer in MyWork with justification.",
	"Overstock should be placed in back stock locations or sent to clearance if it's seasonal merchandise past its selling period.",
	"After truck delivery, scan all items into the system and ensure accurate counts are reflected in inventory.",
	"Returns without receipts can be processed using the customer's ID for items under $20, or store credit for higher amounts per policy.",
	"We price match with major competitors for identical items. The item must be in stock at the competitor and available for immediate purchase.",
	"For broken product complaints, apologize, offer immediate replacement or refund, and escalate to Guest Services if needed.",
	"Yes, most online purchases can be returned in-store. Check the packing slip for return eligibility and process normally.",
	"Store credit is issued as a merchandise card and can be processed at Guest Services or any register.",
	"Use the store app to help locate products, or call the department directly. Walk the guest to the location when possible.",
	"Acknowledge the request and call for a Team Lead or Guest Services Manager immediately. Stay with the guest.",
	"Exchanges for different sizes follow the same process as returns - just add the new item to the transaction.",
	"Discount codes are applied by scanning the barcode or entering the code manually in the discount field before completing payment.",
	"Void transactions require supervisor approval. Press the void button and wait for a Team Lead to enter their credentials.",
	"If the card reader isn't working, try a different reader or ask the guest to use a different payment method. Call for tech support.",
	"For items that won't scan, enter the DPCI manually or use the MyDevice to look up the barcode number.",
	"Layaway payments are processed through the layaway system. Scan the layaway barcode first, then process the payment amount.",
	"Cash transactions over $200 require manager approval. Large cash payments may need additional verification.",
	"Check coupon validity by scanning it first. The system will indicate if it's expired or doesn't apply to current items.",
	"If the register drawer is stuck, don't force it. Call for maintenance and use a different register if available.",
	"During fire alarms, immediately assist guests to exit via nearest emergency exit and report to your designated meeting area.",
	"Report safety hazards immediately to your Team Lead and through the safety reporting system. Block the area if necessary.",
	"If you suspect shoplifting, don't approach the individual. Contact Assets Protection or call for security immediately.",
	"First aid supplies are located at Guest Services, the break room, and with each Team Lead. Call for medical assistance if needed.",
	"For medical emergencies, call 911 first, then notify management. Stay with the person and provide basic first aid if trained.",
	"Spills should be cleaned immediately or blocked off until housekeeping arrives. Use wet floor signs to warn guests.",
	"Report camera issues to Assets Protection immediately as this affects store security coverage.",
	"Contact your Team Lead or Assets Protection for any suspicious activity. Document what you observed.",
	"Time off requests are submitted through myTime self-service. Submit at least 2 weeks in advance for approval.",
	"Seasonal workers follow the same dress code: red shirt, khaki pants/skirts, closed-toe shoes. Name tag required.",
	"Shift swaps must be approved by your Team Lead. Both team members need to agree and meet scheduling requirements.",
	"If you're running late, call the store immediately and speak to your Team Lead. Notify as early as possible.",
	"Access your schedule through myTime online or the myTime mobile app using your team member login.",
	"Call out sick by speaking directly to your Team Lead at least 2 hours before your shift starts.",
	"Update emergency contacts through myTime self-service or ask HR to help you make the changes.",
	"8-hour shifts include a 30-minute unpaid lunch and two 15-minute paid breaks. Check with your TL for timing.",
	"Current back-to-school promotions include 20% off school supplies and BOGO on notebooks. Check weekly ad for details.",
	"Holiday displays should follow the planogram provided. Contact your Team Lead for specific setup instructions and timeline.",
	"Check the weekly price change report for clearance items. Most clearance is marked with yellow or red signage.",
	"Seasonal pricing changes are applied automatically overnight. Verify pricing accuracy during your shift.",
	"Current sale ends Sunday night. New promotions start Monday morning with the weekly ad cycle.",
	"Pre-orders require a 25% deposit and can be processed at Guest Services. Provide the guest with pickup information.",
	"Summer clothing follows a progressive markdown schedule: 30%, 50%, 70% off based on sell-through rates.",
	"Promotional signage is activated Sunday night for Monday promotions. Check that all signs match current pricing.",
}

var userRoles = []string{
	"team_member", "team_lead", "guest_services", "assets_protection",
	"hr", "electronics", "grocery", "style",
}

var actions = []string{
	"general", "orders", "msa_agents", "inventory", "customer_service", "safety",
}

type ragSource struct {
	name  string
	score float32
}

var ragSources = []ragSource{
	{name: "store_handbook", score: 0.85},
	{name: "inventory_system", score: 0.92},
	{name: "customer_service_guide", score: 0.78},
	{name: "safety_procedures", score: 0.88},
	{name: "pos_manual", score: 0.90},
	{name: "hr_policies", score: 0.82},
	{name: "seasonal_guide", score: 0.75},
	{name: "product_database", score: 0.87},
}
