package domain

// Conversation is the fully aggregated, display-ready form of a timeline:
// hourly periods, ranked participation and the topic navigation list.
type Conversation struct {
	Title         string
	Periods       []Period
	Participation *Participation
	Nav           []string
}
