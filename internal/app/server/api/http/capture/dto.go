package capture

import "time"

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Content    string    `json:"content" minLength:"1" doc:"Captured text"`
	Source     string    `json:"source,omitempty" doc:"Application the text came from"`
	URL        string    `json:"url,omitempty" doc:"Page or document the text came from"`
	CapturedAt time.Time `json:"captured_at,omitempty" doc:"Capture timestamp, defaults to now"`
}

type output struct {
	Body response
}

type response struct {
	ID     int64  `json:"id,omitempty"`
	Status string `json:"status"`
}
