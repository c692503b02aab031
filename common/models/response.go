package models

// BaseResponse wraps every successful JSON response.
type BaseResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"message"`
}
