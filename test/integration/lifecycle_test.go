//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/daemon"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/infra"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/usecase"
	"github.com/eliteGoblin/focusd/auto_dark_mode/test/fixtures"
)

var _ = Describe("Install lifecycle", func() {
	var (
		tmpDir    string
		layout    *fixtures.Layout
		hive      *fixtures.MemoryHive
		procs     *fixtures.ProcessTable
		autostart domain.AutostartManager
		installer *usecase.Installer
		current   string
		ctx       context.Context
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "auto-dark-mode-integration-*")
		Expect(err).NotTo(HaveOccurred())

		layout = fixtures.NewLayout(tmpDir)
		current, err = layout.CreateBinary(usecase.ExeName, "fake binary v1")
		Expect(err).NotTo(HaveOccurred())

		hive = fixtures.NewMemoryHive()
		hive.CreateKey(infra.RunKeyPath)
		procs = fixtures.NewProcessTable()
		procs.SetSelf(current)
		autostart = infra.NewRunKeyManager(hive)

		logger := zap.NewNop()
		fs := infra.NewFileSystemManager()
		installer = usecase.NewInstaller(usecase.InstallerDeps{
			Autostart:  autostart,
			FS:         fs,
			Remover:    usecase.NewRemover(procs, fs, logger),
			Launcher:   procs,
			Executable: func() (string, error) { return current, nil },
			Getenv:     layout.Getenv,
			Logger:     logger,
		})
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	defaultTarget := func() string {
		return filepath.Join(layout.AppData(), usecase.InstallDirName, usecase.ExeName)
	}

	Describe("Install", func() {
		Context("on a clean profile", func() {
			It("should copy, register and launch the agent", func() {
				result, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall})
				Expect(err).NotTo(HaveOccurred())

				target := defaultTarget()
				Expect(result.Target).To(Equal(target))
				Expect(fixtures.ReadFile(target)).To(Equal("fake binary v1"))

				raw, _ := hive.Value(infra.RunKeyPath, infra.RunValueName)
				Expect(raw).To(Equal(`"` + target + `"`))
				Expect(procs.Running(target)).To(ConsistOf(result.PID))
			})

			It("should record the scope flag and pass it to the agent", func() {
				cfg := domain.Config{Action: domain.ActionInstall, Scope: domain.ScopeSystemOnly}
				_, err := installer.Install(ctx, cfg)
				Expect(err).NotTo(HaveOccurred())

				record, err := autostart.Installed()
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Path).To(Equal(defaultTarget()))
				Expect(record.Scope).To(Equal(domain.ScopeSystemOnly))

				launches := procs.Launches()
				Expect(launches).To(HaveLen(1))
				Expect(launches[0].Args).To(Equal([]string{domain.SystemOnlyFlag, domain.BackgroundFlag}))
			})
		})

		Context("when run twice", func() {
			It("should leave exactly one agent and one Run value", func() {
				cfg := domain.Config{Action: domain.ActionInstall}
				first, err := installer.Install(ctx, cfg)
				Expect(err).NotTo(HaveOccurred())
				rawFirst, _ := hive.Value(infra.RunKeyPath, infra.RunValueName)

				second, err := installer.Install(ctx, cfg)
				Expect(err).NotTo(HaveOccurred())
				rawSecond, _ := hive.Value(infra.RunKeyPath, infra.RunValueName)

				Expect(rawSecond).To(Equal(rawFirst))
				Expect(procs.IsRunning(first.PID)).To(BeFalse())
				Expect(procs.Running(defaultTarget())).To(ConsistOf(second.PID))
				Expect(fixtures.Exists(defaultTarget())).To(BeTrue())
			})
		})

		Context("when relocating to a custom dir", func() {
			It("should stop and remove the previous installation", func() {
				first, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall})
				Expect(err).NotTo(HaveOccurred())

				customDir := filepath.Join(tmpDir, "Tools", "adm")
				second, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall, InstallDir: customDir})
				Expect(err).NotTo(HaveOccurred())

				Expect(procs.IsRunning(first.PID)).To(BeFalse())
				Expect(fixtures.Exists(first.Target)).To(BeFalse())
				Expect(fixtures.Exists(filepath.Dir(first.Target))).To(BeFalse())

				newTarget := filepath.Join(customDir, usecase.ExeName)
				Expect(second.Target).To(Equal(newTarget))
				Expect(fixtures.ReadFile(newTarget)).To(Equal("fake binary v1"))

				record, err := autostart.Installed()
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Path).To(Equal(newTarget))
			})
		})

		Context("when the Run value is not ours", func() {
			It("should install as if nothing were installed", func() {
				hive.Put(infra.RunKeyPath, infra.RunValueName, `"C:\broken`)

				_, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall})
				Expect(err).NotTo(HaveOccurred())

				record, err := autostart.Installed()
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Path).To(Equal(defaultTarget()))
			})
		})
	})

	Describe("Uninstall", func() {
		Context("after install", func() {
			It("should stop the agent and remove every trace", func() {
				installed, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall})
				Expect(err).NotTo(HaveOccurred())

				result, err := installer.Uninstall(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Removed.KilledPIDs).To(ConsistOf(installed.PID))

				Expect(fixtures.Exists(installed.Target)).To(BeFalse())
				Expect(fixtures.Exists(filepath.Dir(installed.Target))).To(BeFalse())
				_, found := hive.Value(infra.RunKeyPath, infra.RunValueName)
				Expect(found).To(BeFalse())
				Expect(procs.Running(installed.Target)).To(BeEmpty())

				// The binary the user ran is untouched.
				Expect(fixtures.Exists(current)).To(BeTrue())
			})
		})

		Context("when run from the installed copy", func() {
			It("should stop the other agent and remove the Run value", func() {
				installed, err := installer.Install(ctx, domain.Config{Action: domain.ActionInstall})
				Expect(err).NotTo(HaveOccurred())

				current = installed.Target
				procs.SetSelf(installed.Target)

				result, err := installer.Uninstall(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Locked).To(BeTrue())
				Expect(procs.IsRunning(installed.PID)).To(BeFalse())

				_, found := hive.Value(infra.RunKeyPath, infra.RunValueName)
				Expect(found).To(BeFalse())
				Expect(fixtures.Exists(installed.Target)).To(BeTrue())
			})
		})

		Context("when nothing is installed", func() {
			It("should report not installed", func() {
				_, err := installer.Uninstall(ctx)
				Expect(err).To(MatchError(usecase.ErrNotInstalled))
			})
		})
	})
})

// chanNotifier fires whenever the test sends on changes.
type chanNotifier struct {
	changes chan struct{}
}

func (n *chanNotifier) Wait(ctx context.Context) error {
	select {
	case <-n.changes:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *chanNotifier) Close() error { return nil }

var _ = Describe("Agent", func() {
	var (
		hive     *fixtures.MemoryHive
		notifier *chanNotifier
		cancel   context.CancelFunc
		done     chan error
	)

	blob := func(on bool) []byte {
		b := make([]byte, 32)
		b[23] = 0x10
		if !on {
			b[24] = 0x01
		}
		return b
	}

	appsLight := func() interface{} {
		v, _ := hive.Value(usecase.PersonalizeKeyPath, usecase.AppsLightValue)
		return v
	}

	BeforeEach(func() {
		hive = fixtures.NewMemoryHive()
		hive.Put(usecase.NightLightKeyPath, usecase.NightLightValue, blob(false))
		notifier = &chanNotifier{changes: make(chan struct{}, 1)}

		logger := zap.NewNop()
		personalize, err := hive.Open(usecase.PersonalizeKeyPath, domain.AccessCreate)
		Expect(err).NotTo(HaveOccurred())
		nightLight, err := hive.Open(usecase.NightLightKeyPath, domain.AccessRead)
		Expect(err).NotTo(HaveOccurred())

		reconciler := usecase.NewReconciler(nightLight, usecase.NewProjector(personalize, domain.ScopeBoth, logger), logger)
		watcher := infra.NewChangeWatcher(
			infra.WatcherConfig{Debounce: 20 * time.Millisecond, Buffer: 4},
			func() (infra.Notifier, error) { return notifier, nil },
			logger,
		)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		agent := daemon.NewAgent(reconciler, watcher, logger)
		go func() { done <- agent.Run(ctx) }()
	})

	AfterEach(func() {
		cancel()
		Eventually(done, 2*time.Second).Should(Receive())
	})

	It("should apply the current state on startup", func() {
		Eventually(appsLight, time.Second).Should(Equal(uint32(1)))
	})

	It("should follow Night Light changes", func() {
		Eventually(appsLight, time.Second).Should(Equal(uint32(1)))

		hive.Put(usecase.NightLightKeyPath, usecase.NightLightValue, blob(true))
		notifier.changes <- struct{}{}
		Eventually(appsLight, time.Second).Should(Equal(uint32(0)))

		system, _ := hive.Value(usecase.PersonalizeKeyPath, usecase.SystemLightValue)
		Expect(system).To(Equal(uint32(0)))

		hive.Put(usecase.NightLightKeyPath, usecase.NightLightValue, blob(false))
		notifier.changes <- struct{}{}
		Eventually(appsLight, time.Second).Should(Equal(uint32(1)))
	})
})
