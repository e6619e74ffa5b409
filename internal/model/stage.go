package model

// StageState is the rendering state of one catalog stage for a given project.
type StageState string

const (
	StageDone    StageState = "done"
	StageCurrent StageState = "current"
	StagePending StageState = "pending"
)

// Stage is one entry of the fixed production pipeline catalog.
type Stage struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StageView pairs a catalog entry with its state for a given progress value.
type StageView struct {
	Stage
	State StageState `json:"state"`
}

// The production pipeline. Order is fixed; never reordered at run time.
var stageCatalog = []Stage{
	{0, "Script Writing", "Write the initial script for the project."},
	{1, "Script Approval", "Approve the written script."},
	{2, "Video Shoot", "Shoot the video based on the script."},
	{3, "Voice Over", "Record the voice over for the video."},
	{4, "Video Editing", "Edit the video with the recorded footage and voice over."},
	{5, "Animation", "Add animations to the video."},
	{6, "Completion and QC", "Complete the video and perform quality checks."},
	{7, "First Cut Submission", "Submit the first cut of the video."},
	{8, "Final Submission", "Submit the final version of the video."},
	{9, "Final Approval from Client", "Get final approval from the client."},
	{10, "Invoice Submitted", "Submit the invoice for the project."},
	{11, "Payment Received", "Receive payment for the project."},
}

// StageCount is the number of pipeline stages, and the progress total for
// every project created in this workflow.
const StageCount = 12

// Stages returns the stage catalog. Callers get a copy so the catalog stays
// immutable.
func Stages() []Stage {
	out := make([]Stage, len(stageCatalog))
	copy(out, stageCatalog)
	return out
}

// StageName returns the display name for a stage index, or "" if out of range.
func StageName(index int) string {
	if index < 0 || index >= len(stageCatalog) {
		return ""
	}
	return stageCatalog[index].Name
}

// PanelFor renders the catalog against one progress value: stages below
// completed are done, the stage at completed is current, the rest pending.
// A completed project has no current stage.
func PanelFor(p Progress) []StageView {
	views := make([]StageView, len(stageCatalog))
	for i, stage := range stageCatalog {
		state := StagePending
		switch {
		case i < p.Completed:
			state = StageDone
		case i == p.Completed:
			state = StageCurrent
		}
		views[i] = StageView{Stage: stage, State: state}
	}
	return views
}
