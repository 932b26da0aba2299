package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("log redaction", func() {
	It("masks secret JSON keys at any depth", func() {
		out := redactBody([]byte(`{"email":"a@b.co","password":"x","users":[{"newPassword":"y","firstName":"Ann"}],"refreshToken":"z"}`))
		Expect(out).To(ContainSubstring(`"email":"a@b.co"`))
		Expect(out).To(ContainSubstring(`"password":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"newPassword":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"refreshToken":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"firstName":"Ann"`))
	})

	It("hides non-JSON bodies that mention a secret", func() {
		Expect(redactBody([]byte("token=abc"))).To(Equal("[FILTERED - Contains sensitive data]"))
		Expect(redactBody([]byte("hello"))).To(Equal("hello"))
	})

	It("masks credential headers", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")
		out := redactHeaders(h)
		Expect(out["Authorization"]).To(Equal(redacted))
		Expect(out["Accept"]).To(Equal("application/json"))
	})

	It("never reads multipart uploads", func() {
		r := httptest.NewRequest(http.MethodPost, "/media/images/upload", strings.NewReader("binary"))
		r.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		Expect(captureRequestBody(r)).To(Equal("[multipart omitted]"))
	})

	It("keeps only the head of large responses", func() {
		rw := &recordingWriter{ResponseWriter: httptest.NewRecorder()}
		big := strings.Repeat("a", maxLoggedBody+100)
		n, err := rw.Write([]byte(big))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(len(big)))
		Expect(rw.size).To(Equal(len(big)))
		Expect(rw.body.Len()).To(Equal(maxLoggedBody))
	})
})
