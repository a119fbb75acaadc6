package analysis

import (
	"github.com/dd0wney/connectome-metrics/pkg/export"
	"github.com/dd0wney/connectome-metrics/pkg/logging"
)

// Export projects reducedChemical with the metrics opts asks for. Only the
// metrics the options reference are computed.
func (s *Session) Export(opts export.Options) (*export.Document, error) {
	doc, err := s.export(opts)
	if err != nil {
		s.logger.Error("export failed", logging.Error(err))
		if s.metrics != nil {
			s.metrics.RecordExport("error", 0)
		}
		return nil, err
	}

	s.logger.Info("export built",
		logging.String("size_metric", string(opts.SizeMetric)),
		logging.String("group_by", string(opts.GroupBy)),
		logging.Nodes(len(doc.Nodes)),
		logging.Edges(len(doc.Edges)),
		logging.Int("highlighted", doc.Summary.Highlighted),
	)
	if s.metrics != nil {
		s.metrics.RecordExport("success", doc.Summary.Highlighted)
	}
	return doc, nil
}

func (s *Session) export(opts export.Options) (*export.Document, error) {
	var in export.Inputs
	var err error

	switch opts.SizeMetric {
	case export.SizeBetweenness:
		in.Betweenness, err = s.Betweenness()
	case export.SizeConstraint:
		in.Constraint, err = s.Constraint()
	case export.SizeDegree:
		in.Degree, err = s.Degree()
	}
	if err != nil {
		return nil, err
	}

	if opts.GroupBy == export.GroupByCommunity {
		if in.Communities, err = s.Communities(); err != nil {
			return nil, err
		}
	}

	// Unknown metric or grouping names fall through to export.Export, which
	// reports them
	return export.Export(s.snapshots.ReducedChemical, in, opts)
}
