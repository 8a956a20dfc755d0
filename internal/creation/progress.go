package creation

import "sync"

// Step is a stage of the creation pipeline
type Step string

const (
	StepValidating           Step = "validating"
	StepDuplicateCheck       Step = "duplicate_check"
	StepUploadingImage       Step = "uploading_image"
	StepBuildingMetadata     Step = "building_metadata"
	StepUploadingMetadata    Step = "uploading_metadata"
	StepMinting              Step = "minting"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
	StepRelocatingAssets     Step = "relocating_assets"
	StepSavingRecord         Step = "saving_record"
	StepDone                 Step = "done"
)

var stepPercent = map[Step]int{
	StepValidating:           5,
	StepDuplicateCheck:       10,
	StepUploadingImage:       25,
	StepBuildingMetadata:     40,
	StepUploadingMetadata:    50,
	StepMinting:              60,
	StepAwaitingConfirmation: 75,
	StepRelocatingAssets:     85,
	StepSavingRecord:         90,
	StepDone:                 100,
}

var stepMessage = map[Step]string{
	StepValidating:           "Validating request",
	StepDuplicateCheck:       "Checking for existing Evermarks",
	StepUploadingImage:       "Uploading image",
	StepBuildingMetadata:     "Building metadata",
	StepUploadingMetadata:    "Uploading metadata",
	StepMinting:              "Minting Evermark",
	StepAwaitingConfirmation: "Waiting for confirmation",
	StepRelocatingAssets:     "Finalizing assets",
	StepSavingRecord:         "Saving Evermark",
	StepDone:                 "Evermark created",
}

// Progress is a single progress report
type Progress struct {
	Step    Step   `json:"step"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
	TxHash  string `json:"tx_hash,omitempty"`
}

// ProgressFunc receives progress reports. Percent never decreases within one creation.
type ProgressFunc func(Progress)

// tracker emits monotonic progress
type tracker struct {
	mu      sync.Mutex
	fn      ProgressFunc
	percent int
	step    Step
	txHash  string
}

func newTracker(fn ProgressFunc) *tracker {
	return &tracker{fn: fn}
}

func (t *tracker) enter(step Step) {
	t.report(step, "")
}

func (t *tracker) report(step Step, txHash string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	percent := stepPercent[step]
	if percent < t.percent {
		return
	}
	if step == t.step && (txHash == "" || txHash == t.txHash) {
		return
	}
	if txHash != "" {
		t.txHash = txHash
	}
	t.percent = percent
	t.step = step

	if t.fn != nil {
		t.fn(Progress{Step: step, Percent: percent, Message: stepMessage[step], TxHash: t.txHash})
	}
}

func (t *tracker) current() Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step
}
