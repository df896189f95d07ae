package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/community/feed", "200"))

	RecordAPIRequest("GET", "/community/feed", 200, 12*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/community/feed", "200"))
	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc: got %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec: got %v, want %v", got, before)
	}
}

func TestRecordReactionToggle(t *testing.T) {
	for _, result := range []string{"set", "removed", "updated"} {
		before := testutil.ToFloat64(ReactionToggles.WithLabelValues(result))
		RecordReactionToggle(result)
		if got := testutil.ToFloat64(ReactionToggles.WithLabelValues(result)); got != before+1 {
			t.Errorf("%s: got %v, want %v", result, got, before+1)
		}
	}
}

func TestRecordUserCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(UserCacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(UserCacheLookups.WithLabelValues("miss"))

	RecordUserCacheLookup(true)
	RecordUserCacheLookup(false)
	RecordUserCacheLookup(false)

	if got := testutil.ToFloat64(UserCacheLookups.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits: got %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(UserCacheLookups.WithLabelValues("miss")); got != misses+2 {
		t.Errorf("misses: got %v, want %v", got, misses+2)
	}
}

func TestRecordKakaoRequest(t *testing.T) {
	before := testutil.ToFloat64(KakaoRequests.WithLabelValues("token", "failure"))

	RecordKakaoRequest("token", "failure", time.Second)

	if got := testutil.ToFloat64(KakaoRequests.WithLabelValues("token", "failure")); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}
