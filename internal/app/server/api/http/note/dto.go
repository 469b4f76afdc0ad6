package note

import "clipvault/internal/domain/note"

type listInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type listOutput struct {
	Body note.ListResult
}

type searchInput struct {
	Query  string `query:"q" doc:"Case-insensitive substring matched against content and source"`
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type countOutput struct {
	Body countResponse
}

type countResponse struct {
	Count int `json:"count"`
}

type idInput struct {
	ID int64 `path:"id" example:"1" doc:"Note ID"`
}

type updateInput struct {
	ID   int64 `path:"id" example:"1" doc:"Note ID"`
	Body updateRequest
}

type updateRequest struct {
	Content string `json:"content" minLength:"1" doc:"New note content"`
}

type noteOutput struct {
	Body noteResponse
}

type noteResponse struct {
	Status string     `json:"status"`
	Note   *note.Note `json:"note,omitempty"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type sensitiveOutput struct {
	Body sensitiveResponse
}

type sensitiveResponse struct {
	Status      string `json:"status"`
	IsSensitive bool   `json:"is_sensitive"`
}

type historyOutput struct {
	Body historyResponse
}

type historyResponse struct {
	Versions []note.VersionEntry `json:"versions"`
}

type restoreInput struct {
	ID   int64 `path:"id" example:"1" doc:"Note ID"`
	Body restoreRequest
}

type restoreRequest struct {
	Version int `json:"version" minimum:"1" doc:"Version number to restore"`
}
