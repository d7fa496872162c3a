package domain

// QueryCount is one row of the most frequent chat queries.
type QueryCount struct {
	Query string
	Count int
}

// ChatStats aggregates chat logs.
type ChatStats struct {
	TotalChats     int
	FailedChats    int
	TicketsOffered int
	AvgDurationMs  float64
}

// Analytics is the summary shown on the admin dashboard.
type Analytics struct {
	TotalChats      int
	TicketsCreated  int
	ResolutionRate  float64
	AvgResponseTime string
	TopQueries      []QueryCount
	RecentTickets   []*Ticket
}
