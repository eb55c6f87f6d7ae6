package internal

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("parseAliases", func() {
		It("reads semicolon separated pairs and skips broken ones", func() {
			aliases := parseAliases(" Acme SA = Acme Comercio Ltda ;broken; =x;Zeta=Zeta Alimentos")
			Expect(aliases).To(Equal(map[string]string{
				"Acme SA": "Acme Comercio Ltda",
				"Zeta":    "Zeta Alimentos",
			}))
		})

		It("returns an empty map for an empty value", func() {
			Expect(parseAliases("")).To(BeEmpty())
		})
	})

	Describe("ApplyDefaults", func() {
		It("fills zero values", func() {
			cfg := &Config{}
			cfg.ApplyDefaults()

			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.AlterData.PageSize).To(Equal(100))
			Expect(cfg.Sync.EventCacheTTL).To(Equal(24 * time.Hour))
			Expect(cfg.Sync.CacheSweepSchedule).To(Equal("@every 10m"))
			Expect(cfg.Sync.RetentionSchedule).To(Equal("@daily"))
		})

		It("keeps configured values", func() {
			cfg := &Config{Sync: SyncConfig{EventCacheTTL: time.Minute, EnrichConcurrency: 3}}
			cfg.ApplyDefaults()

			Expect(cfg.Sync.EventCacheTTL).To(Equal(time.Minute))
			Expect(cfg.Sync.EnrichConcurrency).To(Equal(3))
		})
	})

	Describe("Validate", func() {
		var cfg *Config

		BeforeEach(func() {
			cfg = &Config{
				Server:    ServerConfig{AllowedOrigins: "*", ReadHeaderTimeout: time.Second, ReadTimeout: time.Minute},
				Database:  DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5},
				Flash:     UpstreamConfig{BaseURL: "https://api.flashapp.services"},
				AlterData: UpstreamConfig{BaseURL: "https://dp.pack.alterdata.com.br/api/v1"},
			}
		})

		It("accepts a config without tokens or database", func() {
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Database.Enabled()).To(BeFalse())
		})

		It("reports every broken section", func() {
			cfg.Flash.BaseURL = "ftp://flash"
			cfg.AlterData.BaseURL = ""
			cfg.Observability.Logging.Level = "verbose"

			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("flash config"))
			Expect(err.Error()).To(ContainSubstring("alterdata config"))
			Expect(err.Error()).To(ContainSubstring("logging config"))
		})

		It("splits allowed origins", func() {
			cfg.Server.AllowedOrigins = "https://a.example, https://b.example,"
			Expect(cfg.Server.Origins()).To(Equal([]string{"https://a.example", "https://b.example"}))
		})
	})
})
