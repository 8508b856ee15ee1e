package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/metaygn/aletheia-hooks/internal/config"
	"github.com/metaygn/aletheia-hooks/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		homeDir string
		workDir string
		loader  *internalconfig.KoanfLoader
		writer  *internalconfig.Writer
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		loader = internalconfig.NewKoanfLoaderWithDirs(homeDir, workDir)
		writer = internalconfig.NewWriter(loader)
	})

	It("writes a file the loader reads back", func() {
		cfg := internalconfig.DefaultConfig()
		cfg.Daemon.Timeout = config.Duration(200 * time.Millisecond)

		Expect(writer.WriteFile(writer.ProjectConfigPath(), cfg, false)).To(Succeed())

		info, err := os.Stat(writer.ProjectConfigPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		data, err := os.ReadFile(writer.ProjectConfigPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("#:schema "))
		Expect(string(data)).To(ContainSubstring("[daemon]"))

		loaded, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Daemon.GetTimeout()).To(Equal(200 * time.Millisecond))
	})

	It("refuses to overwrite without force", func() {
		path := filepath.Join(homeDir, "config.toml")
		Expect(os.WriteFile(path, []byte("version = 1\n"), 0o600)).To(Succeed())

		err := writer.WriteFile(path, internalconfig.DefaultConfig(), false)
		Expect(err).To(MatchError(internalconfig.ErrConfigExists))

		Expect(writer.WriteFile(path, internalconfig.DefaultConfig(), true)).To(Succeed())
	})

	It("places the global file under the app dir", func() {
		Expect(writer.GlobalConfigPath()).To(Equal(
			filepath.Join(homeDir, ".claude", "aletheia", "config.toml"),
		))
	})
})
