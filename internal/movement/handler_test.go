package movement_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

type stubMovementService struct {
	resp  *movement.BatchResponse
	err   error
	cache *movement.EventCache
	got   *movement.SubmitRequest
}

func (s *stubMovementService) Submit(ctx context.Context, req *movement.SubmitRequest) (*movement.BatchResponse, error) {
	s.got = req
	return s.resp, s.err
}

func (s *stubMovementService) Cache() *movement.EventCache {
	return s.cache
}

var _ = Describe("Movement Handler", func() {
	var (
		stub    *stubMovementService
		handler *movement.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		stub = &stubMovementService{cache: movement.NewEventCache(time.Hour)}
		handler = movement.NewHandler(&transport.BaseHandler{Logger: logger.Nop()}, stub)

		router = chi.NewRouter()
		router.Post("/movements", handler.SubmitMovements)
		router.Get("/cache/events", handler.GetCacheEntries)
		router.Delete("/cache/events", handler.ClearCache)
		router.Delete("/cache/events/{code}", handler.InvalidateCacheEntry)
	})

	submit := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/movements", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("answers 200 when every item succeeded", func() {
		stub.resp = &movement.BatchResponse{BatchID: "b-1", Success: true, SuccessCount: 1}

		w := submit(`{"companyId":"c-1","items":[{"event":{"eventCode":"101","value":2,"decimal":null},"employee":{"externalId":"123"}}]}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.got.CompanyID).To(Equal("c-1"))
		Expect(stub.got.Items).To(HaveLen(1))
		Expect(stub.got.Items[0].Event.Value.Raw).To(Equal("2"))
		Expect(stub.got.Items[0].Event.Decimal).To(BeNil())

		var resp movement.BatchResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.BatchID).To(Equal("b-1"))
	})

	It("answers 207 when some items failed", func() {
		stub.resp = &movement.BatchResponse{Success: false, SuccessCount: 1, ErrorCount: 1}

		w := submit(`{"companyId":"c-1","items":[]}`)

		Expect(w.Code).To(Equal(http.StatusMultiStatus))
	})

	It("answers 400 for a malformed body", func() {
		w := submit(`{"companyId":`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(stub.got).To(BeNil())
	})

	It("passes the status of a batch-level failure through", func() {
		stub.err = internal.NewNotFoundError("company not found", internal.ErrCodeCompanyNotFound)

		w := submit(`{"companyId":"c-1","items":[]}`)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal(string(internal.ErrCodeCompanyNotFound)))
	})

	It("lists, invalidates and clears cache entries", func() {
		stub.cache.Put(movement.CachedEvent{Code: "101", EventoID: "e-1"})
		stub.cache.Put(movement.CachedEvent{Code: "202", EventoID: "e-2"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache/events", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		var listed movement.CacheEntriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&listed)).To(Succeed())
		Expect(listed.Total).To(Equal(2))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cache/events/101", nil))
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cache/events/101", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cache/events", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.cache.Len()).To(BeZero())
	})
})
