package backend

import "encoding/json"

// TranslateJobRequest is the body of POST /api/translate/send.
type TranslateJobRequest struct {
	ProjectID       string          `json:"project_id"`
	ChapterIDs      []string        `json:"chapter_ids"`
	SystemPrompt    string          `json:"system_prompt"`
	BatchSize       int             `json:"batch_size,omitempty"`
	Provider        string          `json:"provider,omitempty"`
	TargetService   string          `json:"target_service,omitempty"`
	Model           string          `json:"model,omitempty"`
	ChaptersContent string          `json:"chapters_content,omitempty"`
	Glossary        json.RawMessage `json:"glossary,omitempty"`
}

// TranslateJobResponse is the synchronous acknowledgment for one batch
// submission. Status is "queued" on success and "error" otherwise.
type TranslateJobResponse struct {
	Status  string `json:"status"`
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Queued reports whether the backend accepted the job.
func (r *TranslateJobResponse) Queued() bool {
	return r != nil && r.Status == "queued"
}

// CompletedTranslation is one finished chapter returned by the completion
// poll. Glossary, when present, is an interchange-format JSON array of new
// terms the worker proposed.
type CompletedTranslation struct {
	ChapterID      string          `json:"chapter_id"`
	TranslatedText string          `json:"translated_text"`
	Glossary       json.RawMessage `json:"glossary,omitempty"`
}

// AcknowledgeRequest is the body of POST /api/translate/acknowledge.
type AcknowledgeRequest struct {
	ProjectID  string   `json:"project_id"`
	ChapterIDs []string `json:"chapter_ids"`
}

// LogEntry is one line of the backend's per-project activity log.
type LogEntry struct {
	Time string `json:"time"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// JobStatus is the response of GET /api/translate/status/{jobID}.
type JobStatus struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress,omitempty"`
}

// Health is the response of GET /api/health.
type Health struct {
	Status string `json:"status"`
}
