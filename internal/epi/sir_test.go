package epi_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/ode"
)

var _ = Describe("SIR", func() {
	var model *epi.SIR

	BeforeEach(func() {
		model = epi.NewSIR(1.0, 0.1)
	})

	Describe("Derive", func() {
		It("computes the textbook derivatives", func() {
			// N=1000, force = 1.0 * 100/1000 = 0.1
			dx := model.Derive(ode.State{800, 100, 100}, 0)

			Expect(dx[epi.S]).To(BeNumerically("~", -80, 1e-9))
			Expect(dx[epi.I]).To(BeNumerically("~", 80-10, 1e-9))
			Expect(dx[epi.R]).To(BeNumerically("~", 10, 1e-9))
		})

		It("conserves the population on the derivative level", func() {
			dx := model.Derive(ode.State{999999, 1, 0}, 0)
			Expect(dx.Sum()).To(BeNumerically("~", 0, 1e-9))
		})

		It("is quiescent without infections", func() {
			dx := model.Derive(ode.State{1000, 0, 0}, 0)
			Expect(dx).To(Equal(ode.State{0, 0, 0}))
		})
	})

	Describe("R0", func() {
		It("is the ratio of transmission to recovery", func() {
			Expect(model.R0()).To(BeNumerically("~", 10.0, 1e-12))
		})
	})

	Describe("Validate", func() {
		It("accepts a sane scenario", func() {
			Expect(model.Validate(ode.State{999999, 1, 0})).To(Succeed())
		})

		It("rejects a non-positive population", func() {
			Expect(model.Validate(ode.State{0, 0, 0})).NotTo(Succeed())
		})

		It("rejects negative compartments", func() {
			Expect(model.Validate(ode.State{1000, -1, 0})).NotTo(Succeed())
		})

		It("rejects a wrong dimension", func() {
			Expect(model.Validate(ode.State{1000, 1})).NotTo(Succeed())
		})

		It("rejects non-finite compartments", func() {
			Expect(model.Validate(ode.State{math.NaN(), 1, 0})).NotTo(Succeed())
		})

		It("rejects non-positive rates", func() {
			Expect(epi.NewSIR(0, 0.1).Validate(ode.State{999, 1, 0})).NotTo(Succeed())
			Expect(epi.NewSIR(1.0, -0.1).Validate(ode.State{999, 1, 0})).NotTo(Succeed())
		})

		It("rejects non-finite rates", func() {
			Expect(epi.NewSIR(math.Inf(1), 0.1).Validate(ode.State{999, 1, 0})).NotTo(Succeed())
		})
	})

	Describe("parameters", func() {
		It("round-trips through the Configurable interface", func() {
			Expect(model.SetParam("beta", 0.5)).To(Succeed())
			Expect(model.SetParam("gamma", 0.25)).To(Succeed())

			params := model.GetParams()
			Expect(params["beta"]).To(Equal(0.5))
			Expect(params["gamma"]).To(Equal(0.25))
			Expect(model.R0()).To(BeNumerically("~", 2.0, 1e-12))
		})

		It("rejects unknown names", func() {
			Expect(model.SetParam("sigma", 0.2)).NotTo(Succeed())
		})
	})
})
