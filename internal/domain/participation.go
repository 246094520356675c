package domain

import "sort"

// Participant is one author seen while processing a conversation, together
// with how many exchanges they took part in.
type Participant struct {
	Handle        string
	Avatar        string
	ExchangeCount int
}

// Participation tallies per-author engagement across a conversation. Authors
// are keyed by handle; encounter order is preserved for stable ranking.
type Participation struct {
	byHandle map[string]*Participant
	order    []*Participant
}

// NewParticipation creates an empty tracker.
func NewParticipation() *Participation {
	return &Participation{byHandle: make(map[string]*Participant)}
}

// Record counts one exchange for the given author, creating the participant
// on first sighting. It is called once per status author and once more for a
// resolved reply-origin author, so a reply contributes two increments.
func (p *Participation) Record(author Author) {
	participant, ok := p.byHandle[author.Handle]
	if !ok {
		participant = &Participant{Handle: author.Handle, Avatar: author.Avatar}
		p.byHandle[author.Handle] = participant
		p.order = append(p.order, participant)
	}
	participant.ExchangeCount++
}

// Get returns the participant for a handle, or nil if never recorded.
func (p *Participation) Get(handle string) *Participant {
	return p.byHandle[handle]
}

// Len reports the number of distinct participants.
func (p *Participation) Len() int {
	return len(p.order)
}

// Ranked returns participants sorted by exchange count descending. Equal
// counts keep their encounter order, which needs a stable sort.
func (p *Participation) Ranked() []*Participant {
	ranked := make([]*Participant, len(p.order))
	copy(ranked, p.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExchangeCount > ranked[j].ExchangeCount
	})
	return ranked
}
