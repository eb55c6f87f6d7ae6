package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Errors", func() {
	Describe("Truncate", func() {
		It("leaves short strings alone", func() {
			Expect(Truncate("abc", 5)).To(Equal("abc"))
		})

		It("cuts long strings and marks them", func() {
			Expect(Truncate(strings.Repeat("a", 10), 4)).To(Equal("aaaa..."))
		})

		It("never splits a multi-byte rune", func() {
			Expect(Truncate("aão", 2)).To(Equal("a..."))
		})
	})

	Describe("NewUpstreamError", func() {
		It("keeps an upstream 4xx status", func() {
			appErr := NewUpstreamError("alterdata", http.StatusUnprocessableEntity, "bad movimento")
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(appErr.Type).To(Equal(ErrorTypeExternal))
			Expect(appErr.Details).To(Equal(UpstreamDetails{Service: "alterdata", Status: 422, Body: "bad movimento"}))
		})

		It("maps a non-error status to 502", func() {
			Expect(NewUpstreamError("flash", http.StatusFound, "").StatusCode).To(Equal(http.StatusBadGateway))
		})
	})

	It("is found through wrapping", func() {
		err := fmt.Errorf("context: %w", NewNotFoundError("missing", ErrCodeEventNotFound))
		appErr, ok := IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(ErrCodeEventNotFound))
	})

	It("serializes without the cause", func() {
		appErr := NewInternalError("failed", fmt.Errorf("secret dsn"))
		_, body := appErr.ToHTTPResponse()

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"type":"INTERNAL_ERROR"`))
		Expect(string(raw)).NotTo(ContainSubstring("secret dsn"))
	})

	It("summarizes validation details", func() {
		appErr := NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
			Errors: []ValidationError{{Field: "a", Message: "a is required"}, {Field: "b", Message: "b is required"}},
		})
		Expect(appErr.GetDetailedMessage()).To(Equal("a is required; b is required"))
		Expect(appErr.Error()).To(Equal("a is required"))
	})
})
