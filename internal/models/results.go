package models

// ResultsSummary is the parsed results file: the task records in file
// order plus the dataset counters shown in the header.
type ResultsSummary struct {
	Path                string
	Tasks               []TaskRecord
	TotalInstances      int
	ResolvedInstances   int
	UnresolvedInstances int
}

// Prediction is one line of the predictions JSONL file.
type Prediction struct {
	InstanceID string `json:"instance_id"`
	Model      string `json:"model_name_or_path"`
	Patch      string `json:"model_patch"`
}
