package pagination

// WithDefaults normalizes p:
//   - limit <= 0 becomes cfg.DefaultLimit
//   - limit > cfg.MaxLimit is capped
//   - offset < 0 becomes 0
func (p Params) WithDefaults(cfg Config) Params {
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultLimit
	}
	if p.Limit > cfg.MaxLimit {
		p.Limit = cfg.MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
