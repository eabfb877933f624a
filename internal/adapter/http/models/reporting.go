package models

type DashboardResponse struct {
	TotalAccounts   int64             `json:"totalAccounts"`
	TotalBalance    string            `json:"totalBalance"`
	FlaggedAccounts int64             `json:"flaggedAccounts"`
	RecentEntries   []LedgerEntryView `json:"recentEntries"`
}
