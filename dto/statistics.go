package dto

// UsageCounters is the field-wise shape shared by counter buckets, rollup
// entries and range totals. All fields are additive.
type UsageCounters struct {
	TokenUsed            int64 `json:"token_used" gorm:"column:token_used"`
	ChatsStarted         int64 `json:"chats_started" gorm:"column:chats_started"`
	MessagesSent         int64 `json:"messages_sent" gorm:"column:messages_sent"`
	MessagesFromBot      int64 `json:"messages_from_bot" gorm:"column:messages_from_bot"`
	MessagesFromOperator int64 `json:"messages_from_operator" gorm:"column:messages_from_operator"`
	MessagesFromUser     int64 `json:"messages_from_user" gorm:"column:messages_from_user"`
	RequestsCount        int64 `json:"requests_count" gorm:"column:requests_count"`
}

// Add accumulates other into c field-wise.
func (c *UsageCounters) Add(other UsageCounters) {
	c.TokenUsed += other.TokenUsed
	c.ChatsStarted += other.ChatsStarted
	c.MessagesSent += other.MessagesSent
	c.MessagesFromBot += other.MessagesFromBot
	c.MessagesFromOperator += other.MessagesFromOperator
	c.MessagesFromUser += other.MessagesFromUser
	c.RequestsCount += other.RequestsCount
}

// HourUsage is one hour entry of an hourly view. Hour is the UTC hour of day
// (0-23); Time is the absolute RFC3339 instant of the hour start.
type HourUsage struct {
	Hour int    `json:"hour"`
	Time string `json:"time"`
	UsageCounters
}

// DayUsage is one day entry of a daily view; Date is YYYY-MM-DD in UTC.
type DayUsage struct {
	Date string `json:"date"`
	UsageCounters
}

// MonthUsage is one month entry of a monthly view.
type MonthUsage struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	UsageCounters
}

// HourlyStatistics is a dense 24-entry hourly view plus a grand total.
type HourlyStatistics struct {
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Hours     []HourUsage   `json:"hours"`
	Totals    UsageCounters `json:"totals"`
}

// DayStatistics is the 24 hour entries of one UTC calendar day.
type DayStatistics struct {
	Date   string        `json:"date"`
	Hours  []HourUsage   `json:"hours"`
	Totals UsageCounters `json:"totals"`
}

// MonthStatistics holds one entry per calendar day of the month.
type MonthStatistics struct {
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Days   []DayUsage    `json:"days"`
	Totals UsageCounters `json:"totals"`
}

// YearStatistics holds 12 month entries.
type YearStatistics struct {
	Year   int           `json:"year"`
	Months []MonthUsage  `json:"months"`
	Totals UsageCounters `json:"totals"`
}

// DailyRangeStatistics is a dense trailing-N-days view.
type DailyRangeStatistics struct {
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Days      []DayUsage    `json:"days"`
	Totals    UsageCounters `json:"totals"`
}

// MonthlyRangeStatistics is a dense trailing-N-months view.
type MonthlyRangeStatistics struct {
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Months    []MonthUsage  `json:"months"`
	Totals    UsageCounters `json:"totals"`
}
