package invites_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitedesk/pkg/invitesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and common flows for the invitation service end-to-end
 * tests. Every test gets a fresh container and therefore a fresh database.
 */

const (
	testImageName = "invitedesk-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	publicOrigin   = "https://app.example.test"

	adminName     = "Administrator"
	adminEmail    = "admin@example.test"
	adminPassword = "Admin123!"

	memberPassword = "Secret123"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building invitation service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up invitation service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/invites/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// relaxedLimits keeps rapid test traffic clear of the production profiles.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
	"RATELIMIT_LENIENT_REQUESTS":  "1000",
	"RATELIMIT_LENIENT_BURST":     "1000",
}

// setupContainer starts the service with relaxed rate limits and returns an
// SDK client pointed at it.
func setupContainer(t *testing.T) *invitesdk.Client {
	t.Helper()
	return startContainer(t, relaxedLimits)
}

// setupContainerWithDefaultRateLimits is for tests that exercise the limits
// themselves.
func setupContainerWithDefaultRateLimits(t *testing.T) *invitesdk.Client {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) *invitesdk.Client {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN": bootstrapToken,
		"INVITES_ISSUER":  "invites-e2e",
		"PUBLIC_ORIGIN":   publicOrigin,
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
	}
	maps.Copy(env, extraEnv)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return invitesdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// bootstrapAdmin creates the first admin and returns its session and id.
func bootstrapAdmin(t *testing.T, client *invitesdk.Client) (*invitesdk.Session, string) {
	t.Helper()

	resp, err := client.Bootstrap(t.Context(), bootstrapToken, invitesdk.BootstrapRequest{
		Name:     adminName,
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, resp.AdminUserID)
	assertToken(t, &resp.Token)

	return client.WithToken(resp.Token.AccessToken), resp.AdminUserID
}

// onboard has inviter invite email with role, registers the invitee and
// returns the invitee's session and registration result.
func onboard(
	t *testing.T,
	client *invitesdk.Client,
	inviter *invitesdk.Session,
	email, role string,
) (*invitesdk.Session, *invitesdk.RegisterResponse) {
	t.Helper()

	inv, err := inviter.CreateInvitation(t.Context(), invitesdk.CreateInvitationRequest{
		Email: email,
		Role:  role,
	})
	require.NoError(t, err, "Invitation should be created")

	reg, err := client.Register(t.Context(), invitesdk.RegisterRequest{
		Code:            inv.Code,
		Name:            "Member " + role,
		Password:        memberPassword,
		ConfirmPassword: memberPassword,
	})
	require.NoError(t, err, "Registration should succeed")
	require.Equal(t, email, reg.Email)
	require.Equal(t, role, reg.Role)
	require.Equal(t, inv.ID, reg.InvitationID)
	require.NotNil(t, reg.Token)
	assertToken(t, reg.Token)

	return client.WithToken(reg.Token.AccessToken), reg
}

func assertToken(t *testing.T, tok *invitesdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, tok)
	require.NotEmpty(t, tok.AccessToken, "Access token should not be empty")
	require.Equal(t, "Bearer", tok.TokenType)
	require.Positive(t, tok.ExpiresIn)
}

// assertAPIError checks err is an *invitesdk.APIError with the given status
// and code.
func assertAPIError(t *testing.T, err error, status int, code string) *invitesdk.APIError {
	t.Helper()
	require.Error(t, err)

	var apiErr *invitesdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected an API error, got: %v", err)
	require.Equal(t, status, apiErr.StatusCode, "status for %s", apiErr.Code)
	require.Equal(t, code, apiErr.Code)
	require.NotEmpty(t, apiErr.Description)
	return apiErr
}
