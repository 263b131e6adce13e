package types

// Window is a closed [Start, End] interval in seconds, or in percent of
// width when it addresses an image.
type Window struct {
	Start float64
	End   float64
}

// Empty reports whether no value can fall inside the window.
func (w Window) Empty() bool { return w.Start > w.End }

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t float64) bool { return t >= w.Start && t <= w.End }

// Adjustment shifts a window by Offset and widens it by asymmetric padding.
type Adjustment struct {
	Offset    float64
	PadBefore float64
	PadAfter  float64
}

type Sample struct {
	Time  float64
	Value float64
}

type TimeSeries []Sample

type Transcript struct {
	Words []Word `json:"words"`
}

type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Report summarizes one batch job.
type Report struct {
	Job     string   `json:"job"`
	Items   int      `json:"items"`
	Written int      `json:"written"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Outputs []string `json:"outputs"`
}

// Wrote records an artifact written by the job.
func (r *Report) Wrote(path string) {
	r.Written++
	r.Outputs = append(r.Outputs, path)
}
