package rod_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/outreach"
	"github.com/fwojciec/outreach/rod"
	gorod "github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"deadline", context.DeadlineExceeded, outreach.ETIMEOUT},
		{"wrapped deadline", fmt.Errorf("retry: %w", context.DeadlineExceeded), outreach.ETIMEOUT},
		{"navigation failure", &gorod.NavigationError{Reason: "net::ERR_CONNECTION_REFUSED"}, outreach.EUNAVAILABLE},
		{"element missing", &gorod.ElementNotFoundError{}, outreach.ENOTFOUND},
		{"stale object", &gorod.ObjectNotFoundError{RuntimeRemoteObject: &proto.RuntimeRemoteObject{}}, outreach.ENOTFOUND},
		{"not interactable", &gorod.NotInteractableError{}, outreach.ENOTFOUND},
		{"covered", &gorod.CoveredError{}, outreach.ENOTFOUND},
		{"invisible", &gorod.InvisibleShapeError{}, outreach.ENOTFOUND},
		{"no pointer events", &gorod.NoPointerEventsError{}, outreach.ENOTFOUND},
		{"object gone", cdp.ErrObjNotFound, outreach.ENOTFOUND},
		{"context gone", cdp.ErrCtxNotFound, outreach.ENOTFOUND},
		{"context destroyed", cdp.ErrCtxDestroyed, outreach.ENOTFOUND},
		{"node gone", cdp.ErrNodeNotFoundAtPos, outreach.ENOTFOUND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := rod.Translate(tt.err, "click %s", "#send")

			require.Error(t, err)
			assert.Equal(t, tt.code, outreach.ErrorCode(err))
			assert.Contains(t, outreach.ErrorMessage(err), "click #send")
		})
	}
}

func TestTranslate_PassesThroughOtherErrors(t *testing.T) {
	t.Parallel()

	err := rod.Translate(context.Canceled, "click")
	assert.True(t, errors.Is(err, context.Canceled))

	other := errors.New("boom")
	assert.Same(t, other, rod.Translate(other, "click"))
}
