package domain

// CtftimeEvent mirrors one entry of the CTFTime events API response. Only
// fields the dashboard displays are decoded; everything else is dropped.
type CtftimeEvent struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	URL           string  `json:"url"`
	Logo          string  `json:"logo"`
	CtftimeURL    string  `json:"ctftime_url"`
	Weight        float64 `json:"weight"`
	Onsite        bool    `json:"onsite"`
	Location      string  `json:"location"`
	Format        string  `json:"format"`
	Participants  int64   `json:"participants"`
	Start         string  `json:"start"`
	Finish        string  `json:"finish"`
	Duration      struct {
		Hours int64 `json:"hours"`
		Days  int64 `json:"days"`
	} `json:"duration"`
}
