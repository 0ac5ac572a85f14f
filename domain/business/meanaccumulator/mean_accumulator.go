package meanaccumulator

// MeanAccumulator struct that collects values of a group to compute their mean
// + Key: key of the group. Once set, it cannot change
// + Counter: counts the amount of values collected
// + Total: sum of the values collected
type MeanAccumulator struct {
	Key     string  `json:"key"`
	Counter int     `json:"counter"`
	Total   float64 `json:"total"`
}

func NewMeanAccumulator(key string) *MeanAccumulator {
	return &MeanAccumulator{
		Key: key,
	}
}

func (ma *MeanAccumulator) UpdateAccumulator(value float64) {
	ma.Counter += 1
	ma.Total += value
}

func (ma *MeanAccumulator) Merge(meanAccumulator2 *MeanAccumulator) *MeanAccumulator {
	if ma.Key != meanAccumulator2.Key {
		panic("[MeanAccumulator] cannot merge two MeanAccumulator with different keys")
	}

	return &MeanAccumulator{
		Key:     ma.Key,
		Counter: ma.Counter + meanAccumulator2.Counter,
		Total:   ma.Total + meanAccumulator2.Total,
	}
}

func (ma *MeanAccumulator) GetAverage() float64 {
	if ma.Counter == 0 {
		panic("[MeanAccumulator] cannot get average, counter is zero")
	}
	return ma.Total / float64(ma.Counter)
}

// Group keeps one MeanAccumulator per key, remembering the order in which keys were seen
type Group struct {
	accumulators map[string]*MeanAccumulator
	keys         []string
}

func NewGroup() *Group {
	return &Group{
		accumulators: make(map[string]*MeanAccumulator),
	}
}

// Update adds value to the accumulator of key
func (g *Group) Update(key string, value float64) {
	accumulator, ok := g.accumulators[key]
	if !ok {
		accumulator = NewMeanAccumulator(key)
		g.accumulators[key] = accumulator
		g.keys = append(g.keys, key)
	}
	accumulator.UpdateAccumulator(value)
}

// Get returns the accumulator of key
func (g *Group) Get(key string) (*MeanAccumulator, bool) {
	accumulator, ok := g.accumulators[key]
	return accumulator, ok
}

// Keys returns the keys in order of appearance
func (g *Group) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	return keys
}

func (g *Group) Len() int {
	return len(g.keys)
}
