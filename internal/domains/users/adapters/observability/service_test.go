package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	usermemory "github.com/Apurer/spottythings-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/spottythings-api/internal/domains/users/adapters/tokens"
	userapp "github.com/Apurer/spottythings-api/internal/domains/users/application"
	userdomain "github.com/Apurer/spottythings-api/internal/domains/users/domain"
)

func TestService_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	meterProvider := sdkmetric.NewMeterProvider()

	issuer, err := tokens.NewIssuer("test-secret")
	require.NoError(t, err)
	svc := New(
		userapp.NewService(usermemory.NewRepository(), issuer),
		WithTracer(provider.Tracer("test")),
		WithMeter(meterProvider.Meter("test")),
	)

	ctx := context.Background()
	user, err := userdomain.NewUser("mario", "prova123!")
	require.NoError(t, err)
	require.NoError(t, user.UpdateProfile(userdomain.Profile{Email: "mario@example.com"}))
	_, err = svc.SignUp(ctx, user)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "mario", "sbagliata")
	assert.ErrorIs(t, err, userapp.ErrAuthentication)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "UserService.SignUp", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "UserService.Login", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
