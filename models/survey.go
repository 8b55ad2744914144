package models

// SurveyRecord is one submitted survey form. Every field is free text except
// Timestamp, which is ISO-8601 UTC.
type SurveyRecord struct {
	Timestamp       string `json:"timestamp"`
	Usefulness      string `json:"usefulness"`
	LLMUsage        string `json:"llm_usage"`
	MainProblem     string `json:"main_problem"`
	ReadyToPractice string `json:"ready_to_practice"`
	ProductInterest string `json:"product_interest"`
	Email           string `json:"email"`
}

// SurveyForm binds the six named fields of the survey page.
type SurveyForm struct {
	Usefulness      string `form:"usefulness"`
	LLMUsage        string `form:"llm_usage"`
	MainProblem     string `form:"main_problem"`
	ReadyToPractice string `form:"ready_to_practice"`
	ProductInterest string `form:"product_interest"`
	Email           string `form:"email"`
}

// ValueShare is one row of a frequency distribution.
type ValueShare struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SurveyStats is derived from the full survey collection on every read.
type SurveyStats struct {
	Total           int          `json:"total"`
	Usefulness      []ValueShare `json:"usefulness"`
	LLMUsage        []ValueShare `json:"llm_usage"`
	ReadyToPractice []ValueShare `json:"ready_to_practice"`
	ProductInterest []ValueShare `json:"product_interest"`
}
