// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package propctl_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

type state struct {
	Properties []struct {
		Name     string `json:"name"`
		Value    any    `json:"value"`
		ReadOnly bool   `json:"read_only"`
	} `json:"properties"`
}

func (s state) value(name string) any {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

func freeAddr() string {
	GinkgoHelper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	addr := l.Addr().String()
	Expect(l.Close()).To(Succeed())
	return addr
}

var _ = Describe("propctl", func() {
	Describe("validate", func() {
		It("accepts the bundled definitions", func() {
			session := propctlOK("validate", "testdata/blur.yaml", "../../internal/definition/testdata/shadow.yaml")
			Expect(session.Out).To(gbytes.Say(`ok   testdata/blur.yaml`))
		})

		It("fails on an invalid definition", func() {
			session := propctl("validate", "testdata/bad-kind.yaml")
			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Out).To(gbytes.Say("FAIL testdata/bad-kind.yaml"))
		})
	})

	Describe("run", func() {
		It("applies edits and prints JSON", func() {
			session := propctlOK("run", "testdata/blur.yaml", "-o", "json",
				"-e", "set Enabled = true; set Radius = 42; set Blur.Min = 4")

			var s state
			Expect(json.Unmarshal(session.Out.Contents(), &s)).To(Succeed())
			Expect(s.value("Radius")).To(Equal(10.0))
			Expect(s.value("Blur.Max")).To(Equal(4.0))
		})

		It("reads settings from a config file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "propctl.yaml")
			Expect(os.WriteFile(path, []byte("output:\n  format: json\nlog:\n  level: debug\n"), 0o600)).To(Succeed())

			session := propctlOK("--config", path, "run", "testdata/blur.yaml")
			Expect(json.Valid(session.Out.Contents())).To(BeTrue())
			Expect(session.Err).To(gbytes.Say("collection built"))
		})

		It("exits non-zero on a rejected edit", func() {
			session := propctl("run", "testdata/blur.yaml", "-e", "set Radius = 1")
			Eventually(session).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("PROPERTY_READ_ONLY"))
		})
	})

	Describe("serve", func() {
		It("serves values, scripts and metrics until terminated", func() {
			addr := freeAddr()
			session := propctl("serve", "testdata/blur.yaml", "--addr", addr)
			DeferCleanup(func() {
				session.Terminate()
				Eventually(session).Should(gexec.Exit())
			})

			base := fmt.Sprintf("http://%s", addr)
			Eventually(func() int {
				resp, err := http.Get(base + "/healthz/readiness")
				if err != nil {
					return 0
				}
				_ = resp.Body.Close()
				return resp.StatusCode
			}).WithTimeout(10 * time.Second).Should(Equal(http.StatusOK))

			resp, err := http.Post(base+"/script", "text/plain", strings.NewReader("set Blur.Max = 0.05"))
			Expect(err).NotTo(HaveOccurred())
			var s state
			Expect(json.NewDecoder(resp.Body).Decode(&s)).To(Succeed())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(s.value("Blur.Min")).To(Equal(0.05))

			resp, err = http.Get(base + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(string(body)).To(ContainSubstring("propcore_property_writes_total"))

			session.Signal(syscall.SIGTERM)
			Eventually(session).WithTimeout(10 * time.Second).Should(gexec.Exit(0))
		})
	})
})
