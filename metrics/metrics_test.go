package metrics

import (
	"testing"

	"github.com/oomph-ac/verdict/detection"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFlagHandler(t *testing.T) {
	before := testutil.ToFloat64(flagsTotal.WithLabelValues(detection.TypeMovement, "TELEPORT"))
	FlagHandler{}.HandleFlag(detection.Flag{PlayerID: "p1", Type: detection.TypeMovement, SubType: "TELEPORT"})

	if after := testutil.ToFloat64(flagsTotal.WithLabelValues(detection.TypeMovement, "TELEPORT")); after != before+1 {
		t.Fatalf("expected the flag counter to increase by 1, got %f -> %f", before, after)
	}
}

func TestRecordHit(t *testing.T) {
	before := testutil.ToFloat64(rewindClampedTotal)
	RecordHit("valid", "HEAD", true)
	RecordHit("no_hit", "", false)

	if after := testutil.ToFloat64(rewindClampedTotal); after != before+1 {
		t.Fatalf("expected one clamped rewind, got %f -> %f", before, after)
	}
	if n := testutil.ToFloat64(hitboxTotal.WithLabelValues("HEAD")); n < 1 {
		t.Fatalf("expected a head hit to be counted, got %f", n)
	}
}
