package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stuck-lehnert/cloud/resource"
)

func TestBatchErr(t *testing.T) {
	assert.NoError(t, batchErr(resource.BatchResult{Succeeded: []resource.Record{}}, 3))

	// Three targets: one deleted two rows, one deleted none, one failed.
	result := resource.BatchResult{
		Succeeded: []resource.Record{{"id": 1}, {"id": 2}},
		Failed:    []resource.BatchFailure{{Index: 2, Err: errors.New("boom")}},
	}
	assert.EqualError(t, batchErr(result, 3), "1 of 3 targets failed")

	result.Succeeded = []resource.Record{}
	assert.EqualError(t, batchErr(result, 3), "1 of 3 targets failed")
}
