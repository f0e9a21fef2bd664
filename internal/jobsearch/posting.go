package jobsearch

// Posting is a single job posting returned by the search service. The field
// set is a fixed allow-list; anything else in the response is dropped.
type Posting struct {
	Site        string   `json:"site,omitempty"`
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	Location    string   `json:"location,omitempty"`
	DatePosted  string   `json:"date_posted,omitempty"`
	JobURL      string   `json:"job_url,omitempty"`
	JobType     string   `json:"job_type,omitempty"`
	Interval    string   `json:"interval,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	IsRemote    bool     `json:"is_remote,omitempty"`
	JobLevel    string   `json:"job_level,omitempty"`
	JobFunction string   `json:"job_function,omitempty"`
	Description string   `json:"description,omitempty"`
}
