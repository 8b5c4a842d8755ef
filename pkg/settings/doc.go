// Package settings resolves per-type notice rendering settings.
//
// Settings come from a YAML document shaped like this:
//
//	session_key: ahem_notifications
//	headings:
//	  default_key: notification_heading
//	settings:
//	  default_settings:
//	    wrapper: div
//	    wrapper_class: alert-box
//	    single_message: ':message'
//	  success:
//	    wrapper_class: alert-box success
//	  validation:
//	    heading_key: summary
//
// Every key under settings except default_settings declares a notice type.
// GetSettings overlays a type's keys onto default_settings one level deep: a
// key set on the type replaces the default, any other key is inherited.
//
// Default returns the built-in document (success, info, warning, error).
// NewFromConfig picks the file and key overrides from the environment and
// Watch reloads a file when it changes on disk.
package settings
