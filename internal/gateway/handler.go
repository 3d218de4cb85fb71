package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var proxiedRequests = func() metric.Int64Counter {
	counter, err := otel.Meter("gateway").Int64Counter("gateway.proxied_requests",
		metric.WithDescription("Requests forwarded to upstream services"))
	if err != nil {
		otel.Handle(err)
	}
	return counter
}()

// Handler fronts the catalog, identity and orders services. Catalog and
// identity routes are mounted under a prefix that is stripped before
// forwarding; order routes pass through unchanged.
type Handler struct {
	catalogProxy  *ServiceProxy
	identityProxy *ServiceProxy
	ordersProxy   *ServiceProxy
	logger        *slog.Logger
}

func NewHandler(catalogProxy, identityProxy, ordersProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		catalogProxy:  catalogProxy,
		identityProxy: identityProxy,
		ordersProxy:   ordersProxy,
		logger:        logger,
	}
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/catalog")
	h.proxyRequest(w, r, h.catalogProxy, "catalog", path)
}

func (h *Handler) HandleIdentity(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/identity")
	h.proxyRequest(w, r, h.identityProxy, "identity", path)
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.ordersProxy, "orders", r.URL.Path)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, upstream, path string) {
	proxiedRequests.Add(r.Context(), 1, metric.WithAttributes(attribute.String("upstream", upstream)))

	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
