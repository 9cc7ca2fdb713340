package gcp

import "testing"

func TestResolveModeDefaultsToGCS(t *testing.T) {
	mode, err := ResolveMode("", "")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if mode != ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCS, mode)
	}
}

func TestResolveModeFallsBackToEmulator(t *testing.T) {
	mode, err := ResolveMode("", "http://fake-gcs:4443")
	if err != nil {
		t.Fatalf("ResolveMode: %v", err)
	}
	if mode != ObjectStorageModeGCSEmulator {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCSEmulator, mode)
	}
}

func TestResolveModeRejectsUnknown(t *testing.T) {
	if _, err := ResolveMode("s3", ""); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestValidateEmulatorNeedsAbsoluteHost(t *testing.T) {
	cfg := StorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "fake-gcs:4443", ManualBucket: "manuals"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for host without scheme")
	}
	cfg.EmulatorHost = "http://fake-gcs:4443"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresBucket(t *testing.T) {
	if err := (StorageConfig{Mode: ObjectStorageModeGCS}).Validate(); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"manuals/v1/a.pdf":  "application/pdf",
		"manuals/v2/b.DOCX": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"manuals/v3/c.doc":  "application/msword",
		"manuals/v4/d.bin":  "",
	}
	for key, want := range cases {
		if got := ContentTypeForKey(key); got != want {
			t.Fatalf("ContentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}
