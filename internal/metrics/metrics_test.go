// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryDuration)
	RecordDBQuery("SELECT", "interactions", 10*time.Millisecond, nil)
	if after := testutil.CollectAndCount(DBQueryDuration); after <= before {
		t.Errorf("DBQueryDuration series count did not grow: %d -> %d", before, after)
	}

	errBefore := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "interactions"))
	RecordDBQuery("INSERT", "interactions", time.Millisecond, errors.New("constraint violated"))
	errAfter := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "interactions"))
	if errAfter != errBefore+1 {
		t.Errorf("DBQueryErrors = %v, want %v", errAfter, errBefore+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/interactions/history", "200"))
	RecordAPIRequest("GET", "/api/v1/interactions/history", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/interactions/history", "200"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("after inc = %v, want %v", got, base+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("after dec = %v, want %v", got, base)
	}
}

func TestRecordIngestion(t *testing.T) {
	before := testutil.ToFloat64(InteractionsIngested.WithLabelValues("view"))
	RecordIngestion("view")
	after := testutil.ToFloat64(InteractionsIngested.WithLabelValues("view"))
	if after != before+1 {
		t.Errorf("InteractionsIngested = %v, want %v", after, before+1)
	}

	rejBefore := testutil.ToFloat64(IngestRejections.WithLabelValues("unknown_product"))
	RecordIngestRejection("unknown_product")
	rejAfter := testutil.ToFloat64(IngestRejections.WithLabelValues("unknown_product"))
	if rejAfter != rejBefore+1 {
		t.Errorf("IngestRejections = %v, want %v", rejAfter, rejBefore+1)
	}
}
