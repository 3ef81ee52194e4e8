package firework_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fireworks/internal/config"
	"github.com/san-kum/fireworks/internal/firework"
	"github.com/san-kum/fireworks/internal/particle"
)

func kinds(st *particle.Store) map[particle.Kind]int {
	out := map[particle.Kind]int{}
	for i := 0; i < st.Len(); i++ {
		out[st.Kind[i]]++
	}
	return out
}

var _ = Describe("System", func() {
	var (
		cfg *config.Config
		sys *firework.System
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		sys = firework.New(cfg, rand.New(rand.NewSource(7)))
	})

	Describe("Explode", func() {
		It("produces the same burst for the same seed", func() {
			sys.Explode(100, 100)
			other := firework.New(cfg, rand.New(rand.NewSource(7)))
			other.Explode(100, 100)

			Expect(sys.Store().Len()).To(Equal(other.Store().Len()))
			Expect(sys.Store().Len()).To(BeNumerically(">", cfg.Fireworks.CountBase))
		})

		It("always leads with a single flash", func() {
			sys.Explode(100, 100)
			Expect(kinds(sys.Store())[particle.Flash]).To(Equal(1))
			Expect(sys.Store().Kind[0]).To(Equal(particle.Flash))
		})

		It("gives every star in a burst the same shape", func() {
			sys.Explode(100, 100)
			st := sys.Store()
			shape := st.Shape[1]
			for i := 1; i < st.Len(); i++ {
				Expect(st.Shape[i]).To(Equal(shape))
			}
		})
	})

	Describe("Launch", func() {
		It("degrades to an explosion when the target is not above the origin", func() {
			sys.Launch(50, 100, 50, 100)
			k := kinds(sys.Store())
			Expect(k[particle.Shell]).To(BeZero())
			Expect(k[particle.Flash]).To(Equal(1))
			Expect(k[particle.Normal]).To(BeNumerically(">=", cfg.Fireworks.CountBase))
		})

		It("is silently dropped when no slot is free", func() {
			sys.SetBudget(1)
			sys.Explode(10, 10)
			Expect(sys.Store().Len()).To(Equal(1))

			sys.Launch(0, 500, 0, 100)
			Expect(sys.Store().Len()).To(Equal(1))
			Expect(kinds(sys.Store())[particle.Shell]).To(BeZero())
		})
	})

	Describe("SetBudget", func() {
		It("truncates live particles to the new budget", func() {
			sys.Explode(100, 100)
			sys.SetBudget(25)
			Expect(sys.Store().Len()).To(Equal(25))
			Expect(sys.Stats().Budget).To(Equal(25))
		})

		It("never exceeds the physical capacity", func() {
			sys.SetBudget(cfg.Capacity() * 10)
			Expect(sys.Stats().Budget).To(Equal(cfg.Capacity()))
		})
	})

	Describe("Update", func() {
		It("keeps the live count within budget under churn", func() {
			rng := rand.New(rand.NewSource(99))
			sys.SetBudget(cfg.Quality.Low.Budget)
			// stars keyed by ttl; a surviving key's life must keep falling
			prevLife := map[float64]float64{}
			for frame := 0; frame < 600; frame++ {
				if frame%5 == 0 {
					sys.Launch(rng.Float64()*800, 600, rng.Float64()*800, rng.Float64()*300)
				}
				if frame%17 == 0 {
					sys.Explode(rng.Float64()*800, rng.Float64()*400)
				}
				sys.Update(1.0 / 60)

				st := sys.Store()
				Expect(st.Len()).To(BeNumerically("<=", st.Budget()))
				life := map[float64]float64{}
				for i := 0; i < st.Len(); i++ {
					Expect(st.Life[i]).To(BeNumerically(">", 0))
					Expect(st.Life[i]).To(BeNumerically("<=", st.TTL[i]))
					if st.Kind[i] == particle.Normal {
						life[st.TTL[i]] = max(life[st.TTL[i]], st.Life[i])
					}
				}
				for ttl, l := range life {
					if prev, ok := prevLife[ttl]; ok {
						Expect(l).To(BeNumerically("<", prev))
					}
				}
				prevLife = life
			}
		})

		It("splits a crossette exactly once", func() {
			st := sys.Store()
			idx, err := st.Allocate()
			Expect(err).NotTo(HaveOccurred())
			st.Kind[idx] = particle.Normal
			st.Shape[idx] = particle.Crossette
			st.Life[idx], st.TTL[idx] = 0.5, 1
			st.VX[idx] = 80
			st.Brightness[idx] = 1

			for i := 0; i < 5; i++ {
				sys.Update(0.02)
			}
			Expect(st.Len()).To(Equal(4))
			for i := 0; i < st.Len(); i++ {
				Expect(st.Shape[i]).To(Equal(particle.Peony))
			}
		})
	})
})
