package model

type SongsResponse struct {
	Songs []Song `json:"songs"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
