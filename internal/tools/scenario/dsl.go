package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a validation scenario described by a Lua script: one unit
// design, optional pass options, and the expected outcome.
type Scenario struct {
	Name      string
	Unit      map[string]any
	Locations []map[string]any
	Options   map[string]any
	Expect    Expectation
}

// Expectation captures the asserted outcome of a validation pass.
type Expectation struct {
	ValidSet  bool
	Valid     bool
	Errors    *int
	Critical  *int
	Warnings  *int
	FindingOf []string
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it
// built. The script must end with `return s` where s came from
// Scenario.new.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "unit", Function: scenarioUnit},
	{Name: "location", Function: scenarioLocation},
	{Name: "options", Function: scenarioOptions},
	{Name: "expect_valid", Function: scenarioExpectValid},
	{Name: "expect_errors", Function: scenarioExpectErrors},
	{Name: "expect_critical", Function: scenarioExpectCritical},
	{Name: "expect_warnings", Function: scenarioExpectWarnings},
	{Name: "expect_finding", Function: scenarioExpectFinding},
}

func scenarioUnit(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	scenario.Unit = tableToMap(state, 2)
	return 0
}

func scenarioLocation(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	scenario.Locations = append(scenario.Locations, tableToMap(state, 2))
	return 0
}

func scenarioOptions(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	scenario.Options = tableToMap(state, 2)
	return 0
}

func scenarioExpectValid(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeBoolean)
	scenario.Expect.ValidSet = true
	scenario.Expect.Valid = state.ToBoolean(2)
	return 0
}

func scenarioExpectErrors(state *lua.State) int {
	scenario := checkScenario(state)
	value := int(lua.CheckNumber(state, 2))
	scenario.Expect.Errors = &value
	return 0
}

func scenarioExpectCritical(state *lua.State) int {
	scenario := checkScenario(state)
	value := int(lua.CheckNumber(state, 2))
	scenario.Expect.Critical = &value
	return 0
}

func scenarioExpectWarnings(state *lua.State) int {
	scenario := checkScenario(state)
	value := int(lua.CheckNumber(state, 2))
	scenario.Expect.Warnings = &value
	return 0
}

func scenarioExpectFinding(state *lua.State) int {
	scenario := checkScenario(state)
	ruleID := lua.CheckString(state, 2)
	scenario.Expect.FindingOf = append(scenario.Expect.FindingOf, ruleID)
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a Lua table into either a []any, when the table is
// a contiguous positive-integer array, or a map[string]any otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)

	isArray := true
	count := 0
	maxIndex := 0
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) != lua.TypeNumber {
			isArray = false
		} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
			count++
			if idx > maxIndex {
				maxIndex = idx
			}
		} else {
			isArray = false
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
