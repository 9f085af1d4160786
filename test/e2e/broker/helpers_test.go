package broker_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/veilhq/veil/pkg/brokersdk"
)

/*
 * Common helpers for broker end-to-end tests: container setup, a fake
 * notification gateway that captures dispatched codes, and flow shortcuts.
 */

const (
	testImageName = "veil-broker-test:latest"

	testEmail    = "ada@example.com"
	testPhone    = "+61400000001"
	testPassword = "Sup3r-secret!"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building broker Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up broker Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.Command("docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/broker/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.Command("docker", "rmi", "-f", testImageName).Run()
}

// codeGateway stands in for the notification provider. The broker posts
// dispatched codes here, keyed by destination, so tests can read the code a
// real user would receive out of band.
type codeGateway struct {
	server *http.Server
	port   int

	mu    sync.Mutex
	codes map[string]string // destination -> latest code
}

func startCodeGateway(t *testing.T) *codeGateway {
	t.Helper()

	gw := &codeGateway{codes: make(map[string]string)}

	listener, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	gw.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("POST /dispatch", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Channel     string `json:"channel"`
			Destination string `json:"destination"`
			Code        string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		gw.mu.Lock()
		gw.codes[payload.Destination] = payload.Code
		gw.mu.Unlock()

		w.WriteHeader(http.StatusAccepted)
	})

	gw.server = &http.Server{Handler: mux}
	go func() { _ = gw.server.Serve(listener) }()

	t.Cleanup(func() { _ = gw.server.Close() })
	return gw
}

// waitForCode polls until the gateway has received a code for destination.
// Dispatch is asynchronous on the broker side, so a short wait is expected.
func (gw *codeGateway) waitForCode(t *testing.T, destination string) string {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		gw.mu.Lock()
		code, ok := gw.codes[destination]
		if ok {
			delete(gw.codes, destination)
		}
		gw.mu.Unlock()

		if ok {
			return code
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("no code arrived for %s", destination)
	return ""
}

// setupBrokerContainer starts the broker with its notification gateway
// pointed at the test's code capture server, and returns the base URL.
func setupBrokerContainer(t *testing.T) (string, *codeGateway) {
	t.Helper()
	ctx := context.Background()

	gw := startCodeGateway(t)

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"BROKER_ISSUER":          "veil-broker-test",
			"BROKER_DATABASE_FILE":   "/tmp/broker.db",
			"BROKER_NOTIFY_BASE_URL": fmt.Sprintf("http://%s:%d/dispatch", testcontainers.HostInternal, gw.port),
			"BROKER_NOTIFY_API_KEY":  "test-gateway-key",
			"BROKER_RESEND_COOLDOWN": "1s",
			"ENV":                    "test",
			"LOG_LEVEL":              "info",
			"LOG_FORMAT":             "json",
		},
		HostAccessPorts: []int{gw.port},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), gw
}

// signupAndLogin registers a password account and returns an authenticated
// session for it.
func signupAndLogin(t *testing.T, client *brokersdk.SDKClient, gw *codeGateway, email, phone string) *brokersdk.Session {
	t.Helper()

	_, err := client.Signup(t.Context(), brokersdk.SignupRequest{
		Email:    email,
		Password: testPassword,
		Phone:    phone,
	})
	require.NoError(t, err)

	// Signup dispatches an email code immediately; drain it so later waits
	// see only the codes their own requests produced.
	gw.waitForCode(t, email)

	login, err := client.Login(t.Context(), email, testPassword)
	require.NoError(t, err)
	require.False(t, login.MFAPending)
	require.NotEmpty(t, login.AccessToken)

	return client.NewSession(login.AccessToken)
}

// verifyChannel runs the request/receive/confirm loop for one channel.
func verifyChannel(t *testing.T, session *brokersdk.Session, gw *codeGateway, channel, destination string) brokersdk.VerificationStatusResponse {
	t.Helper()

	require.NoError(t, session.RequestVerification(t.Context(), channel))
	code := gw.waitForCode(t, destination)

	status, err := session.ConfirmVerification(t.Context(), channel, code)
	require.NoError(t, err)
	return status
}

// fullyVerify verifies both channels and asserts the aggregate lands on
// verified.
func fullyVerify(t *testing.T, session *brokersdk.Session, gw *codeGateway, email, phone string) {
	t.Helper()

	verifyChannel(t, session, gw, "email", email)
	status := verifyChannel(t, session, gw, "phone", phone)
	require.Equal(t, "verified", status.State)
}
