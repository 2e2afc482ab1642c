package render

import "testing"

func TestDecode_Progress(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"progress","stage":"rendering","progress":0.5}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	p, ok := msg.(Progress)
	if !ok {
		t.Fatalf("expected Progress, got %T", msg)
	}
	if p.Stage != "rendering" || p.Fraction != 0.5 {
		t.Errorf("unexpected fields: %+v", p)
	}
}

func TestDecode_Done(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"done","outputPath":"/tmp/out.webm"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	d, ok := msg.(Done)
	if !ok {
		t.Fatalf("expected Done, got %T", msg)
	}
	if d.OutputPath != "/tmp/out.webm" {
		t.Errorf("unexpected output path %q", d.OutputPath)
	}
}

func TestDecode_Error(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"error","message":"browser crashed"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	f, ok := msg.(Failed)
	if !ok {
		t.Fatalf("expected Failed, got %T", msg)
	}
	if f.Message != "browser crashed" {
		t.Errorf("unexpected message %q", f.Message)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"telemetry"}`)); err == nil {
		t.Error("expected error for unknown message type")
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, msg := range []Message{
		Progress{Stage: "bundling", Fraction: 0.05},
		Done{OutputPath: "/tmp/a.webm"},
		Failed{Message: "boom"},
	} {
		line, err := Encode(msg)
		if err != nil {
			t.Fatalf("encode %T: %v", msg, err)
		}
		back, err := Decode(line)
		if err != nil {
			t.Fatalf("decode %T: %v", msg, err)
		}
		if back != msg {
			t.Errorf("round trip changed %+v into %+v", msg, back)
		}
	}
}
