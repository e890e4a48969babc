package app

import (
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/pipelines/caltech"
	"github.com/specialistvlad/sagegrid/pipelines/xgbdebug"
)

// corePipelines is the definitive list of all pipelines that are compiled
// into the sagegrid binary.
var corePipelines = []pipeline.Module{
	&caltech.Module{},
	&xgbdebug.Module{},
}
