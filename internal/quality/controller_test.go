package quality_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/quality"
)

var _ = Describe("Controller", func() {
	var (
		cfg  config.QualityConfig
		ctrl *quality.Controller
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig().Quality
		ctrl = quality.NewController(cfg)
	})

	It("starts at the high tier", func() {
		Expect(ctrl.Current()).To(Equal(cfg.High))
		Expect(ctrl.IsLow()).To(BeFalse())
	})

	It("transitions exactly twice across one dip and recovery", func() {
		series := []float64{60, 58, 50, 44, 40, 45, 48, 50, 53, 54, 52, 47, 43, 55, 60, 50, 45}
		changes := 0
		for _, fps := range series {
			if _, changed := ctrl.Observe(fps); changed {
				changes++
			}
		}
		Expect(changes).To(Equal(2))
		Expect(ctrl.Transitions()).To(Equal(2))
		Expect(ctrl.Current()).To(Equal(cfg.High))
	})

	DescribeTable("hovering inside the band",
		func(startLow bool, fps float64) {
			ctrl.Force(startLow)
			for i := 0; i < 20; i++ {
				_, changed := ctrl.Observe(fps)
				Expect(changed).To(BeFalse())
			}
			Expect(ctrl.IsLow()).To(Equal(startLow))
		},
		Entry("high at 42", false, 42.0),
		Entry("high at 48", false, 48.0),
		Entry("low at 48", true, 48.0),
		Entry("low at 54", true, 54.0),
	)

	It("reports the new tier on a transition", func() {
		tier, changed := ctrl.Observe(30)
		Expect(changed).To(BeTrue())
		Expect(tier.Budget).To(Equal(config.DefaultBudgetLow))
		Expect(tier.SampleInterval).To(Equal(3))

		tier, changed = ctrl.Observe(59)
		Expect(changed).To(BeTrue())
		Expect(tier.Budget).To(Equal(config.DefaultBudgetHigh))
		Expect(tier.Scale).To(Equal(1.0))
	})
})
