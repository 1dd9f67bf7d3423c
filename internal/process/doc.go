// Package process manages subprocess groups for the LibreOffice and browser
// PDF backends, so a cancelled conversion does not leave helpers running.
package process
