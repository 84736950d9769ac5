// Package config manages the lightctl configuration file.
//
// The file is YAML and stores per-controller metadata (nickname, last known
// address) and panel preferences (discovery, debounce, live sync and the
// pattern display list).
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/lightctl/config.yaml or $HOME/.config/lightctl/config.yaml
//   - macOS: $HOME/.config/lightctl/config.yaml
//   - Windows: %LOCALAPPDATA%\lightctl\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	registry.SetDeviceNickname("192.168.1.42", "porch")
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Watching
//
// NewRegistryWatcher reloads the file whenever it changes on disk and hands
// the fresh Registry to its callback. The panel uses this to pick up edits to
// pattern_order without restarting.
package config
