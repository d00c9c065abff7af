package driver

import (
	"errors"
	"testing"
)

func TestVerify(t *testing.T) {
	ok := "- id: lights\n  alias: Lights\n  trigger:\n    - platform: state\n      entity_id: sun.sun\n"
	if err := Verify("ok.yaml", ok); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	if err := Verify("empty.yaml", ""); err != nil {
		t.Fatalf("empty document rejected: %v", err)
	}

	err := Verify("bad.yaml", "- id: a\n  alias: x: y\n")
	if err == nil {
		t.Fatal("expected verify error")
	}
	var ve *VerifyError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *VerifyError, got %T", err)
	}
	if ve.Path != "bad.yaml" || ve.Msg == "" || ve.Unwrap() == nil {
		t.Fatalf("unexpected verify error %+v", ve)
	}
}
