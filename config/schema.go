package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/timzifer/accelconf/settings"
)

// Documentation keys written at the top of the settings text. They are
// accepted and ignored on read.
const (
	AccelModesKey = "### Accel modes ###"
	CapModesKey   = "### Cap modes (applies to classic only) ###"
)

const schemaSource = `
#AccelMode: %s
#CapMode: %s

#Vec2: {
	x?: number
	y?: number
	...
}

#AccelArgs: {
	mode?:              #AccelMode
	"Gain / Velocity"?: bool
	offset?:            number
	acceleration?:      number
	decayRate?:         number
	growthRate?:        number
	motivity?:          number
	exponentClassic?:   number
	scale?:             number
	weight?:            number
	exponentPower?:     number
	limit?:             number
	midpoint?:          number
	smooth?:            number
	"Cap / Jump"?:      #Vec2
	"Cap mode"?:        #CapMode
	data?: [...number]
	...
}

#Profile: {
	name!: string
	"Whole/combined accel (set false for 'by component' mode)"!: bool
	lpNorm!: number
	"Stretches domain for horizontal vs vertical inputs"!:     #Vec2
	"Stretches accel range for horizontal vs vertical inputs"!: #Vec2
	"Sensitivity multiplier"!:                           number
	"Y/X sensitivity ratio (vertical sens multiplier)"!: number
	"Whole or horizontal accel parameters"!:             #AccelArgs
	"Vertical accel parameters"!:                        #AccelArgs
	"Input Speed Cap"!:                                  number
	"Negative directional multipliers"!:                 #Vec2
	"Degrees of rotation"!:                              number
	"Degrees of angle snapping"!:                        number
	...
}

#DeviceConfig: {
	disable!:       bool
	setExtraInfo?:  bool
	"DPI (normalizes sens to 1000dpi and converts input speed unit: counts/ms -> in/s)"!: int32
	"Polling rate Hz (keep at 0 for automatic adjustment)"!:                              int32
	minimumTime?: number
	maximumTime?: number
	...
}

#Device: {
	name!:    string
	profile!: string
	id!:      string
	config!:  #DeviceConfig
	...
}

#Document: {
	%q?: string
	%q?: string
	version!:             string
	defaultDeviceConfig!: #DeviceConfig
	profiles!: [...#Profile]
	devices!: [...#Device]
	...
}
`

type schema struct {
	mu  sync.Mutex
	ctx *cue.Context
	doc cue.Value
}

var loadSchema = sync.OnceValues(func() (*schema, error) {
	src := fmt.Sprintf(schemaSource,
		disjunction(settings.AccelModes()),
		disjunction(settings.CapModes()),
		AccelModesKey, CapModesKey)
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("settings.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile settings schema: %w", err)
	}
	doc := v.LookupPath(cue.ParsePath("#Document"))
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("settings schema: %w", err)
	}
	return &schema{ctx: ctx, doc: doc}, nil
})

func disjunction[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Quote(string(v))
	}
	return strings.Join(parts, " | ")
}

// checkStructure verifies required keys, value types and enum names of a
// settings text before it is decoded.
func checkStructure(text []byte) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := cueyaml.Extract("settings.yaml", text)
	if err != nil {
		return err
	}
	data := s.ctx.BuildFile(file)
	if err := data.Err(); err != nil {
		return err
	}
	if err := s.doc.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}
