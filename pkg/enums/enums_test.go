package enums

import "testing"

func TestStepSequenceOrder(t *testing.T) {
	want := []StepName{
		StepVideoAnalysis,
		StepScriptGeneration,
		StepAudioGeneration,
		StepAudioSync,
		StepVideoComposition,
		StepCaptionRendering,
	}
	if len(StepSequence) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(StepSequence))
	}
	for i, step := range want {
		if StepSequence[i] != step {
			t.Fatalf("position %d: expected %s got %s", i, step, StepSequence[i])
		}
	}
}

func TestParseProjectStatus(t *testing.T) {
	status, err := ParseProjectStatus("processing")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != ProjectStatusProcessing {
		t.Fatalf("expected processing, got %s", status)
	}
	if _, err := ParseProjectStatus("exploded"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseFileType(t *testing.T) {
	for _, value := range []string{"final_video", "video_with_audio", "audio", "script"} {
		ft, err := ParseFileType(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if !ft.IsValid() {
			t.Fatalf("%q should be valid", value)
		}
	}
	if _, err := ParseFileType("thumbnail"); err == nil {
		t.Fatalf("expected error for unknown file type")
	}
}
