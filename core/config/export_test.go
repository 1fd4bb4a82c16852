package config

// Reset exposes cache clearing to the external test package.
var Reset = reset
