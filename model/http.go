package model

type AnalyzeResponse struct {
	Type    Kind   `json:"type"`
	Scale   string `json:"scale"`
	Content string `json:"content"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewAnalyzeResponse(r *AnalysisResult) AnalyzeResponse {
	return AnalyzeResponse{Type: r.Kind, Scale: r.Scale, Content: r.Text()}
}
