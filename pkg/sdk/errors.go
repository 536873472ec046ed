package sdk

import "fmt"

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("searchd: HTTP %d", e.Status)
	}
	return fmt.Sprintf("searchd: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}
