// Package services holds tablesite's core logic behind the driving ports.
//
// The Builder owns one editing session: the working layout, its undo
// history, the selection and the save state. LayoutService moves layouts
// between the local cache and the backend store, RegistryService describes
// the component kinds, RenderService turns layouts into HTML or Markdown,
// and SettingsService reads and writes the user's configuration.
package services
