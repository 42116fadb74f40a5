// Package catalog хранит справочники: категории и типы преступлений для формы
// сообщения и координаты центров районов для карты.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"gopkg.in/yaml.v3"

	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/pkg/utils"
)

// boundsBufferDeg - запас вокруг центров районов при проверке координат сообщения
const boundsBufferDeg = 1.5

//go:embed catalog.yaml
var defaultCatalog []byte

// Category - категория и допустимые типы
type Category struct {
	Name  string   `yaml:"name" json:"name"`
	Types []string `yaml:"types" json:"types"`
}

// District - район и координаты его центра
type District struct {
	Name string  `yaml:"name" json:"name"`
	Lat  float64 `yaml:"lat" json:"lat"`
	Lng  float64 `yaml:"lng" json:"lng"`
	// Aliases - названия подразделения в исходном наборе данных
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// DistrictMatch - ближайший к точке район
type DistrictMatch struct {
	District   string          `json:"district"`
	Center     domain.GeoPoint `json:"center"`
	DistanceKm float64         `json:"distance_km"`
}

type file struct {
	Categories []Category `yaml:"categories"`
	Districts  []District `yaml:"districts"`
}

// Catalog - неизменяемый справочник
type Catalog struct {
	categories []Category
	districts  []District
	types      map[string]map[string]struct{}
	centers    map[string]domain.GeoPoint
	bounds     *geom.Bounds
}

// Default разбирает встроенный catalog.yaml
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault - как Default, но паникует при ошибке разбора
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse разбирает YAML справочника
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}
	if len(f.Districts) == 0 {
		return nil, fmt.Errorf("catalog has no districts")
	}

	c := &Catalog{
		categories: f.Categories,
		districts:  f.Districts,
		types:      make(map[string]map[string]struct{}, len(f.Categories)),
		centers:    make(map[string]domain.GeoPoint, len(f.Districts)),
	}

	for _, cat := range f.Categories {
		set := make(map[string]struct{}, len(cat.Types))
		for _, t := range cat.Types {
			set[t] = struct{}{}
		}
		c.types[cat.Name] = set
	}

	coords := make([]geom.Coord, 0, len(f.Districts))
	for _, d := range f.Districts {
		if !utils.ValidateCoordinates(d.Lat, d.Lng) {
			return nil, fmt.Errorf("district %q has invalid coordinates", d.Name)
		}
		c.centers[d.Name] = domain.GeoPoint{Lat: d.Lat, Lng: d.Lng}
		for _, alias := range d.Aliases {
			c.centers[alias] = domain.GeoPoint{Lat: d.Lat, Lng: d.Lng}
		}
		coords = append(coords, geom.Coord{d.Lng, d.Lat})
	}

	extent := geom.NewBounds(geom.XY).Extend(geom.NewMultiPoint(geom.XY).MustSetCoords(coords))
	c.bounds = geom.NewBounds(geom.XY).Set(
		extent.Min(0)-boundsBufferDeg, extent.Min(1)-boundsBufferDeg,
		extent.Max(0)+boundsBufferDeg, extent.Max(1)+boundsBufferDeg,
	)

	return c, nil
}

// Categories возвращает категории в порядке справочника
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.types[category]
	return ok
}

// TypesFor - типы категории; nil для неизвестной категории
func (c *Catalog) TypesFor(category string) []string {
	for _, cat := range c.categories {
		if cat.Name == category {
			out := make([]string, len(cat.Types))
			copy(out, cat.Types)
			return out
		}
	}
	return nil
}

func (c *Catalog) IsValidType(category, crimeType string) bool {
	set, ok := c.types[category]
	if !ok {
		return false
	}
	_, ok = set[crimeType]
	return ok
}

// Districts - районы с координатами, по алфавиту
func (c *Catalog) Districts() []District {
	out := make([]District, len(c.districts))
	copy(out, c.districts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Coordinates - центр района по названию или псевдониму
func (c *Catalog) Coordinates(district string) (domain.GeoPoint, bool) {
	p, ok := c.centers[district]
	return p, ok
}

// Bounds - габарит центров районов с запасом boundsBufferDeg
func (c *Catalog) Bounds() *geom.Bounds {
	return c.bounds.Clone()
}

// Contains - попадает ли точка в область покрытия (габарит районов с запасом)
func (c *Catalog) Contains(p domain.GeoPoint) bool {
	return c.bounds.OverlapsPoint(geom.XY, geom.Coord{p.Lng, p.Lat})
}

// NearestDistrict находит район с ближайшим центром
func (c *Catalog) NearestDistrict(p domain.GeoPoint) DistrictMatch {
	target := geom.Coord{p.Lng, p.Lat}

	best := DistrictMatch{}
	bestDist := math.Inf(1)
	for _, d := range c.districts {
		dist := xy.Distance(target, geom.Coord{d.Lng, d.Lat})
		if dist < bestDist {
			bestDist = dist
			best = DistrictMatch{
				District: d.Name,
				Center:   domain.GeoPoint{Lat: d.Lat, Lng: d.Lng},
			}
		}
	}

	best.DistanceKm = math.Round(utils.HaversineDistance(p.Lat, p.Lng, best.Center.Lat, best.Center.Lng)*100) / 100
	return best
}
