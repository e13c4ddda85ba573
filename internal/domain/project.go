package domain

// Project is a display-ready card for the portfolio's project grid.
type Project struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image"`
	GitHub       string   `json:"github"`
	Live         string   `json:"live,omitempty"`
}
