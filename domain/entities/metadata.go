package entities

// Metadata this struct contains extra information about the data produced by a run of the pipeline
// + RunID: ID of the run that produced the data
// + Type: this field helps us to recognize what type of data is
// + Stage: stage were the Metadata was constructed
// + Message: message with extra information
type Metadata struct {
	RunID   string `json:"run_id"`
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func NewMetadata(runID string, dataType string, stage string, message string) Metadata {
	return Metadata{
		RunID:   runID,
		Type:    dataType,
		Stage:   stage,
		Message: message,
	}
}

func (m Metadata) GetType() string {
	return m.Type
}

func (m Metadata) GetRunID() string {
	return m.RunID
}

func (m Metadata) GetStage() string {
	return m.Stage
}

func (m Metadata) GetMessage() string {
	return m.Message
}
