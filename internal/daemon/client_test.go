package daemon_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

func writePort(path string, port int) {
	GinkgoHelper()
	Expect(os.WriteFile(path, []byte(strconv.Itoa(port)+"\n"), 0o600)).To(Succeed())
}

func serverPort(srv *httptest.Server) int {
	GinkgoHelper()

	addr, ok := srv.Listener.Addr().(*net.TCPAddr)
	Expect(ok).To(BeTrue())

	return addr.Port
}

var _ = Describe("Client", func() {
	var (
		portFile string
		mux      *http.ServeMux
		srv      *httptest.Server
		release  chan struct{}
		client   *daemon.Client
	)

	BeforeEach(func() {
		portFile = filepath.Join(GinkgoT().TempDir(), "daemon.port")
		release = make(chan struct{})
		mux = http.NewServeMux()
		srv = httptest.NewServer(mux)

		DeferCleanup(func() {
			close(release)
			srv.Close()
		})

		writePort(portFile, serverPort(srv))

		client = daemon.NewClient(
			daemon.WithPortFile(portFile),
			daemon.WithTimeout(200*time.Millisecond),
			daemon.WithNotifyGrace(50*time.Millisecond),
		)
	})

	Describe("Consult", func() {
		payload := []byte(`{"hook_event_name":"PreToolUse","tool_name":"Bash"}`)

		It("returns a well-formed daemon decision", func() {
			var (
				got         []byte
				contentType string
			)

			mux.HandleFunc("POST /hooks/pre-tool-use", func(w http.ResponseWriter, r *http.Request) {
				got, _ = io.ReadAll(r.Body)
				contentType = r.Header.Get("Content-Type")
				_, _ = io.WriteString(w, `{"hookSpecificOutput":{"hookEventName":"PreToolUse","permissionDecision":"deny","permissionDecisionReason":"nope"}}`)
			})

			out, err := client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Decision()).To(Equal(hook.DecisionDeny))
			Expect(out.HookSpecificOutput.PermissionDecisionReason).To(Equal("nope"))
			Expect(got).To(MatchJSON(payload))
			Expect(contentType).To(Equal("application/json"))
		})

		It("re-reads the port file on every call", func() {
			other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"hookSpecificOutput":{"additionalContext":"second"}}`)
			}))
			DeferCleanup(other.Close)

			mux.HandleFunc("/hooks/stop", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"hookSpecificOutput":{"additionalContext":"first"}}`)
			})

			out, err := client.Consult(context.Background(), daemon.RouteStop, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Context()).To(Equal("first"))

			writePort(portFile, serverPort(other))

			out, err = client.Consult(context.Background(), daemon.RouteStop, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Context()).To(Equal("second"))
		})

		DescribeTable("malformed responses",
			func(body string) {
				mux.HandleFunc("/hooks/pre-tool-use", func(w http.ResponseWriter, _ *http.Request) {
					_, _ = io.WriteString(w, body)
				})

				_, err := client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
				Expect(err).To(MatchError(daemon.ErrMalformed))
			},
			Entry("not JSON", "ok"),
			Entry("empty object", "{}"),
			Entry("wrong type", `{"hookSpecificOutput":"deny"}`),
			Entry("unknown decision", `{"hookSpecificOutput":{"permissionDecision":"maybe"}}`),
		)

		It("reports non-2xx status", func() {
			mux.HandleFunc("/hooks/pre-tool-use", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			_, err := client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
			Expect(err).To(MatchError(daemon.ErrBadStatus))
		})

		It("times out on a stalled daemon", func() {
			mux.HandleFunc("/hooks/pre-tool-use", func(_ http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-release:
				}
			})

			start := time.Now()
			_, err := client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
			Expect(err).To(MatchError(daemon.ErrTimeout))
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})

		It("reports a missing port file", func() {
			Expect(os.Remove(portFile)).To(Succeed())

			_, err := client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
			Expect(err).To(MatchError(daemon.ErrNoEndpoint))
		})

		It("reports an unreachable daemon", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			port := ln.Addr().(*net.TCPAddr).Port
			Expect(ln.Close()).To(Succeed())
			writePort(portFile, port)

			_, err = client.Consult(context.Background(), daemon.RoutePreToolUse, payload)
			Expect(err).To(MatchError(daemon.ErrUnreachable))
		})
	})

	Describe("Health", func() {
		It("returns the compacted payload", func() {
			mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "{ \"status\": \"ok\",\n \"version\": \"1.2.0\" }")
			})

			raw, err := client.Health(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(`{"status":"ok","version":"1.2.0"}`))
		})

		It("rejects a non-JSON payload", func() {
			mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "alive")
			})

			_, err := client.Health(context.Background())
			Expect(err).To(MatchError(daemon.ErrMalformed))
		})
	})

	Describe("Notify", func() {
		It("returns without waiting for a response", func() {
			received := make(chan []byte, 1)

			mux.HandleFunc("POST /hooks/session-end", func(_ http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				received <- body

				select {
				case <-r.Context().Done():
				case <-release:
				}
			})

			start := time.Now()
			client.Notify(daemon.RouteSessionEnd, []byte(`{"hook_event_name":"SessionEnd"}`))
			Expect(time.Since(start)).To(BeNumerically("<", 150*time.Millisecond))

			Eventually(received).Should(Receive(MatchJSON(`{"hook_event_name":"SessionEnd"}`)))
		})

		It("returns within the grace period without an endpoint", func() {
			Expect(os.Remove(portFile)).To(Succeed())

			start := time.Now()
			client.Notify(daemon.RouteStop, []byte(`{}`))
			Expect(time.Since(start)).To(BeNumerically("<", 150*time.Millisecond))
		})
	})
})
