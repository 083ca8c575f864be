package config

import (
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LifecycleConfig is the status grouping and known owner table used by reports.
type LifecycleConfig struct {
	Statuses StatusConfig `mapstructure:"statuses"`
	Owners   []KnownOwner `mapstructure:"owners"`
}

type StatusConfig struct {
	FullyInstalled    string   `mapstructure:"fullyInstalled"`
	ServiceTerminated string   `mapstructure:"serviceTerminated"`
	UnusedTerminated  string   `mapstructure:"unusedTerminated"`
	DefectRepair      string   `mapstructure:"defectRepair"`
	Pending           string   `mapstructure:"pending"`
	InstallCompleted  []string `mapstructure:"installCompleted"`
	Churned           []string `mapstructure:"churned"`
}

type KnownOwner struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		Statuses: StatusConfig{
			FullyInstalled:    "QR_MENU_INSTALL",
			ServiceTerminated: "SERVICE_TERMINATED",
			UnusedTerminated:  "UNUSED_TERMINATED",
			DefectRepair:      "DEFECT_REPAIR",
			Pending:           "PENDING",
			InstallCompleted:  []string{"QR_MENU_INSTALL", "SERVICE_TERMINATED", "UNUSED_TERMINATED", "DEFECT_REPAIR"},
			Churned:           []string{"SERVICE_TERMINATED", "UNUSED_TERMINATED"},
		},
		Owners: []KnownOwner{
			{ID: "unassigned", Name: "Unassigned"},
		},
	}
}

// OwnerNames returns the known owner table keyed by owner id.
func (c LifecycleConfig) OwnerNames() map[string]string {
	out := make(map[string]string, len(c.Owners))
	for _, owner := range c.Owners {
		out[owner.ID] = owner.Name
	}
	return out
}

type LifecycleConfigHolder struct {
	current atomic.Value // holds LifecycleConfig
}

// NewStaticLifecycleConfigHolder wraps a fixed config without file watching.
func NewStaticLifecycleConfigHolder(cfg LifecycleConfig) *LifecycleConfigHolder {
	holder := &LifecycleConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewLifecycleConfigHolder reads lifecycle.yml and reloads it on change.
// Defaults apply when no file is found.
func NewLifecycleConfigHolder(appCfg Config, log *zap.Logger) (*LifecycleConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.lifecycle")

	v := viper.New()
	if path := strings.TrimSpace(appCfg.LifecycleConfigPath); path != "" {
		v.SetConfigFile(filepath.Clean(path))
	} else {
		v.SetConfigName("lifecycle")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/storepulse")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STOREPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLifecycleConfig()
	v.SetDefault("lifecycle.statuses.fullyInstalled", defaults.Statuses.FullyInstalled)
	v.SetDefault("lifecycle.statuses.serviceTerminated", defaults.Statuses.ServiceTerminated)
	v.SetDefault("lifecycle.statuses.unusedTerminated", defaults.Statuses.UnusedTerminated)
	v.SetDefault("lifecycle.statuses.defectRepair", defaults.Statuses.DefectRepair)
	v.SetDefault("lifecycle.statuses.pending", defaults.Statuses.Pending)
	v.SetDefault("lifecycle.statuses.installCompleted", defaults.Statuses.InstallCompleted)
	v.SetDefault("lifecycle.statuses.churned", defaults.Statuses.Churned)
	v.SetDefault("lifecycle.owners", defaults.Owners)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
		log.Info("lifecycle config not found, using defaults")
	}

	cfg, err := decodeLifecycle(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticLifecycleConfigHolder(cfg)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeLifecycle(v)
			if err != nil {
				log.Warn("lifecycle config reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("lifecycle config reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *LifecycleConfigHolder) Get() LifecycleConfig {
	return h.current.Load().(LifecycleConfig)
}

func decodeLifecycle(v *viper.Viper) (LifecycleConfig, error) {
	var cfg LifecycleConfig
	if err := v.UnmarshalKey("lifecycle", &cfg); err != nil {
		return LifecycleConfig{}, err
	}
	if err := validateLifecycleConfig(cfg); err != nil {
		return LifecycleConfig{}, err
	}
	return cfg, nil
}

func validateLifecycleConfig(cfg LifecycleConfig) error {
	s := cfg.Statuses
	if strings.TrimSpace(s.FullyInstalled) == "" {
		return errors.New("lifecycle.statuses.fullyInstalled cannot be empty")
	}
	if len(s.InstallCompleted) == 0 {
		return errors.New("lifecycle.statuses.installCompleted cannot be empty")
	}
	completed := make(map[string]struct{}, len(s.InstallCompleted))
	for _, status := range s.InstallCompleted {
		completed[strings.ToUpper(strings.TrimSpace(status))] = struct{}{}
	}
	if _, ok := completed[strings.ToUpper(strings.TrimSpace(s.FullyInstalled))]; !ok {
		return errors.New("lifecycle.statuses.installCompleted must include fullyInstalled")
	}
	for _, status := range s.Churned {
		if _, ok := completed[strings.ToUpper(strings.TrimSpace(status))]; !ok {
			return errors.New("lifecycle.statuses.churned must be a subset of installCompleted")
		}
	}
	for _, owner := range cfg.Owners {
		if strings.TrimSpace(owner.ID) == "" {
			return errors.New("lifecycle.owners entries require an id")
		}
	}
	return nil
}
