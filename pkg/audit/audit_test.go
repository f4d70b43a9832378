package audit_test

import (
	"context"
	"testing"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "", audit.MaskEmail(""))
	assert.Equal(t, "***", audit.MaskEmail("ab"))
	assert.Equal(t, "a***@gmail.com", audit.MaskEmail("amina@gmail.com"))
	assert.Equal(t, "***@x.sn", audit.MaskEmail("a@x.sn"))
	assert.Equal(t, "n***", audit.MaskEmail("noatsign"))
}

func TestLogPicksRequestContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := audit.New(zap.New(core), "jobspace", "test")

	ctx := context.WithValue(context.Background(), domain.KeyRequestID, "req-1")
	ctx = context.WithValue(ctx, domain.KeyUserEmail, "minaba@gmail.com")
	l.RecordDeleted(ctx, "candidats", "c1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, string(audit.EventRecordDeleted), entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "m***@gmail.com", fields["actor"])
	assert.Equal(t, "candidats", fields["collection"])
	assert.Equal(t, "c1", fields["record_id"])
}

func TestLoginFailedIsWarning(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := audit.New(zap.New(core), "jobspace", "test")

	l.LoginFailed(context.Background(), "x@y.sn", "bad_password")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestDefaultIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		audit.Default().RecordCreated(context.Background(), "offres", "1")
	})
}
