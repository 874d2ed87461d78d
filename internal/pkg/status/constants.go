package status

//Stage represents the upload pipeline state
type Stage int

const (
	// Received - audio is in hand, nothing called yet
	Received Stage = iota + 1
	// Transcribing speech to text
	Transcribing
	// Translating Spanish text to English
	Translating
	// Extracting purchase order fields
	Extracting
	// Persisting the purchase order
	Persisting
	// Responded - final step
	Responded
	// Failed - pipeline aborted
	Failed
)

var (
	stageName = map[Stage]string{Received: "Received", Transcribing: "Transcribing",
		Translating: "Translating", Extracting: "Extracting", Persisting: "Persisting",
		Responded: "Responded", Failed: "Failed"}
)

func (st Stage) String() string {
	return stageName[st]
}
