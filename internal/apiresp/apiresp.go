// Package apiresp provides the canonical JSON envelope for all API responses.
// Every 2xx/4xx/5xx body goes through this package to ensure a uniform shape
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apiresp

// Envelope is the response body for every endpoint:
// {success: bool, message?: string, data?: …}
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

func Error(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}

// Page wraps a result list with the computed pagination envelope.
// Requests paginate with {limit, offset}; responses report {total, page, total_pages}.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

func NewPage(items interface{}, total int64, limit, offset int) Page {
	if limit < 1 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Page{
		Items:      items,
		Total:      total,
		Page:       offset/limit + 1,
		TotalPages: totalPages,
		Limit:      limit,
		Offset:     offset,
	}
}
