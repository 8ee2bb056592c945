// Package pages renders the confirmation pages returned by the controller's
// HTTP services. Built-in pages are embedded; a template directory may
// replace any of them.
package pages
