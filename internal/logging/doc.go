// Package logging wraps uber/zap for the server and the scan command.
//
// Production output is JSON; development output is a colored console
// encoding. The level of a Logger and all of its children can be changed at
// runtime with SetLevel.
//
//	logger := logging.NewDefault()
//	logger.Info("extracted", zap.Int("links", len(res.Links)))
package logging
