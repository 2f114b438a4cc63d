package configloader

import "github.com/yaklabco/dashgram/pkg/config"

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when non-zero
//   - Flags: override wins when set, so a layer can turn a default off
//   - Slices: override replaces base entirely when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}

	if override.Markdown != nil {
		result.Markdown = override.Markdown
	}
	if override.DetectShebang != nil {
		result.DetectShebang = override.DetectShebang
	}
	if override.FollowSymlinks != nil {
		result.FollowSymlinks = override.FollowSymlinks
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Include != nil {
		result.Include = override.Include
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
