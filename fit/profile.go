package fit

import (
	"fmt"
	"strings"

	tfit "github.com/tormoder/fit"
)

// Global message numbers the assembler and profile care about.
const (
	mesgNumFileID           = 0
	mesgNumSport            = 12
	mesgNumSession          = 18
	mesgNumLap              = 19
	mesgNumRecord           = 20
	mesgNumEvent            = 21
	mesgNumDeviceInfo       = 23
	mesgNumWorkout          = 26
	mesgNumWorkoutStep      = 27
	mesgNumActivity         = 34
	mesgNumFieldDescription = 206
	mesgNumDeveloperDataID  = 207
)

// fieldNumTimestamp is the protocol-wide field number for the message
// timestamp, shared by every global message.
const fieldNumTimestamp = 253

const semicirclesPerDegree = 2147483648.0 / 180.0

// fieldSpec describes how one (global message, field number) pair decodes
// into a named value. A non-zero scale applies decoded = raw/scale - offset.
// An enum table maps raw integers to their profile names.
type fieldSpec struct {
	name   string
	scale  float64
	offset float64
	units  string
	isTime bool
	enum   map[uint64]string
}

var fileTypeNames = map[uint64]string{
	1:  "device",
	2:  "settings",
	3:  "sport",
	4:  "activity",
	5:  "workout",
	6:  "course",
	9:  "weight",
	10: "totals",
	11: "goals",
	20: "activity_summary",
}

var manufacturerNames = map[uint64]string{
	1:   "garmin",
	6:   "srm",
	7:   "quarq",
	15:  "dynastream",
	16:  "timex",
	23:  "suunto",
	32:  "wahoo_fitness",
	48:  "pioneer",
	63:  "specialized",
	67:  "favero_electronics",
	69:  "stages_cycling",
	76:  "bryton",
	86:  "lezyne",
	89:  "tacx",
	95:  "stryd",
	107: "magene",
	255: "development",
	260: "zwift",
	265: "strava",
	267: "bkool",
	289: "hammerhead",
	294: "coros",
}

var sportNames = map[uint64]string{
	0:  "generic",
	1:  "running",
	2:  "cycling",
	3:  "transition",
	4:  "fitness_equipment",
	5:  "swimming",
	6:  "basketball",
	7:  "soccer",
	8:  "tennis",
	9:  "american_football",
	10: "training",
	11: "walking",
	12: "cross_country_skiing",
	13: "alpine_skiing",
	14: "snowboarding",
	15: "rowing",
	16: "mountaineering",
	17: "hiking",
	18: "multisport",
	19: "paddling",
}

var subSportNames = map[uint64]string{
	0:  "generic",
	1:  "treadmill",
	2:  "street",
	3:  "trail",
	4:  "track",
	5:  "spin",
	6:  "indoor_cycling",
	7:  "road",
	8:  "mountain",
	9:  "downhill",
	10: "recumbent",
	11: "cyclocross",
	12: "hand_cycling",
	13: "track_cycling",
	14: "indoor_rowing",
	15: "elliptical",
	16: "stair_climbing",
	17: "lap_swimming",
	18: "open_water",
}

var eventNames = map[uint64]string{
	0:  "timer",
	3:  "workout",
	4:  "workout_step",
	5:  "power_down",
	6:  "power_up",
	7:  "off_course",
	8:  "session",
	9:  "lap",
	10: "course_point",
	11: "battery",
	21: "recovery_hr",
	33: "front_gear_change",
	34: "rear_gear_change",
}

var eventTypeNames = map[uint64]string{
	0: "start",
	1: "stop",
	3: "marker",
	4: "stop_all",
	8: "stop_disable",
	9: "stop_disable_all",
}

var intensityNames = map[uint64]string{
	0: "active",
	1: "rest",
	2: "warmup",
	3: "cooldown",
}

var lapTriggerNames = map[uint64]string{
	0: "manual",
	1: "time",
	2: "distance",
	3: "position_start",
	4: "position_lap",
	5: "position_waypoint",
	6: "position_marked",
	7: "session_end",
	8: "fitness_equipment",
}

var activityTypeNames = map[uint64]string{
	0: "generic",
	1: "running",
	2: "cycling",
	3: "transition",
	4: "fitness_equipment",
	5: "swimming",
	6: "walking",
	8: "sedentary",
}

// profile resolves (global message, field number) to the field's name and
// decode rules. Field numbers follow the Garmin FIT profile tables.
var profile = map[uint16]map[uint8]fieldSpec{
	mesgNumFileID: { // file_id
		0: {name: "type", enum: fileTypeNames},
		1: {name: "manufacturer", enum: manufacturerNames},
		2: {name: "product"},
		3: {name: "serial_number"},
		4: {name: "time_created", isTime: true},
		5: {name: "number"},
	},
	mesgNumSport: { // sport
		0: {name: "sport", enum: sportNames},
		1: {name: "sub_sport", enum: subSportNames},
		3: {name: "name"},
	},
	mesgNumSession: { // session
		253: {name: "timestamp", isTime: true},
		254: {name: "message_index"},
		0:   {name: "event", enum: eventNames},
		1:   {name: "event_type", enum: eventTypeNames},
		2:   {name: "start_time", isTime: true},
		3:   {name: "start_position_lat", scale: semicirclesPerDegree, units: "degrees"},
		4:   {name: "start_position_long", scale: semicirclesPerDegree, units: "degrees"},
		5:   {name: "sport", enum: sportNames},
		6:   {name: "sub_sport", enum: subSportNames},
		7:   {name: "total_elapsed_time", scale: 1000, units: "s"},
		8:   {name: "total_timer_time", scale: 1000, units: "s"},
		9:   {name: "total_distance", scale: 100, units: "m"},
		10:  {name: "total_cycles"},
		11:  {name: "total_calories", units: "kcal"},
		13:  {name: "total_fat_calories", units: "kcal"},
		14:  {name: "avg_speed", scale: 1000, units: "m/s"},
		15:  {name: "max_speed", scale: 1000, units: "m/s"},
		16:  {name: "avg_heart_rate", units: "bpm"},
		17:  {name: "max_heart_rate", units: "bpm"},
		18:  {name: "avg_cadence", units: "rpm"},
		19:  {name: "max_cadence", units: "rpm"},
		20:  {name: "avg_power", units: "watts"},
		21:  {name: "max_power", units: "watts"},
		22:  {name: "total_ascent", units: "m"},
		23:  {name: "total_descent", units: "m"},
		24:  {name: "total_training_effect", scale: 10},
		25:  {name: "first_lap_index"},
		26:  {name: "num_laps"},
		34:  {name: "normalized_power", units: "watts"},
		35:  {name: "training_stress_score", scale: 10},
		36:  {name: "intensity_factor", scale: 1000},
		42:  {name: "avg_stroke_distance", scale: 100, units: "m"},
		44:  {name: "pool_length", scale: 100, units: "m"},
		48:  {name: "total_work", units: "J"},
		49:  {name: "avg_altitude", scale: 5, offset: 500, units: "m"},
		50:  {name: "max_altitude", scale: 5, offset: 500, units: "m"},
		52:  {name: "avg_grade", scale: 100, units: "%"},
		57:  {name: "avg_temperature", units: "C"},
		58:  {name: "max_temperature", units: "C"},
		59:  {name: "total_moving_time", scale: 1000, units: "s"},
		64:  {name: "min_heart_rate", units: "bpm"},
		71:  {name: "min_altitude", scale: 5, offset: 500, units: "m"},
		124: {name: "enhanced_avg_speed", scale: 1000, units: "m/s"},
		125: {name: "enhanced_max_speed", scale: 1000, units: "m/s"},
		126: {name: "enhanced_avg_altitude", scale: 5, offset: 500, units: "m"},
		128: {name: "enhanced_max_altitude", scale: 5, offset: 500, units: "m"},
	},
	mesgNumLap: { // lap
		253: {name: "timestamp", isTime: true},
		254: {name: "message_index"},
		0:   {name: "event", enum: eventNames},
		1:   {name: "event_type", enum: eventTypeNames},
		2:   {name: "start_time", isTime: true},
		3:   {name: "start_position_lat", scale: semicirclesPerDegree, units: "degrees"},
		4:   {name: "start_position_long", scale: semicirclesPerDegree, units: "degrees"},
		5:   {name: "end_position_lat", scale: semicirclesPerDegree, units: "degrees"},
		6:   {name: "end_position_long", scale: semicirclesPerDegree, units: "degrees"},
		7:   {name: "total_elapsed_time", scale: 1000, units: "s"},
		8:   {name: "total_timer_time", scale: 1000, units: "s"},
		9:   {name: "total_distance", scale: 100, units: "m"},
		10:  {name: "total_cycles"},
		11:  {name: "total_calories", units: "kcal"},
		12:  {name: "total_fat_calories", units: "kcal"},
		13:  {name: "avg_speed", scale: 1000, units: "m/s"},
		14:  {name: "max_speed", scale: 1000, units: "m/s"},
		15:  {name: "avg_heart_rate", units: "bpm"},
		16:  {name: "max_heart_rate", units: "bpm"},
		17:  {name: "avg_cadence", units: "rpm"},
		18:  {name: "max_cadence", units: "rpm"},
		19:  {name: "avg_power", units: "watts"},
		20:  {name: "max_power", units: "watts"},
		21:  {name: "total_ascent", units: "m"},
		22:  {name: "total_descent", units: "m"},
		23:  {name: "intensity", enum: intensityNames},
		24:  {name: "lap_trigger", enum: lapTriggerNames},
		25:  {name: "sport", enum: sportNames},
		33:  {name: "normalized_power", units: "watts"},
		39:  {name: "sub_sport", enum: subSportNames},
		41:  {name: "total_work", units: "J"},
		42:  {name: "avg_altitude", scale: 5, offset: 500, units: "m"},
		43:  {name: "max_altitude", scale: 5, offset: 500, units: "m"},
		45:  {name: "avg_grade", scale: 100, units: "%"},
		50:  {name: "avg_temperature", units: "C"},
		51:  {name: "max_temperature", units: "C"},
		52:  {name: "total_moving_time", scale: 1000, units: "s"},
		62:  {name: "min_altitude", scale: 5, offset: 500, units: "m"},
		63:  {name: "min_heart_rate", units: "bpm"},
		71:  {name: "wkt_step_index"},
		110: {name: "enhanced_avg_speed", scale: 1000, units: "m/s"},
		111: {name: "enhanced_max_speed", scale: 1000, units: "m/s"},
		112: {name: "enhanced_avg_altitude", scale: 5, offset: 500, units: "m"},
		114: {name: "enhanced_max_altitude", scale: 5, offset: 500, units: "m"},
	},
	mesgNumRecord: { // record
		253: {name: "timestamp", isTime: true},
		0:   {name: "position_lat", scale: semicirclesPerDegree, units: "degrees"},
		1:   {name: "position_long", scale: semicirclesPerDegree, units: "degrees"},
		2:   {name: "altitude", scale: 5, offset: 500, units: "m"},
		3:   {name: "heart_rate", units: "bpm"},
		4:   {name: "cadence", units: "rpm"},
		5:   {name: "distance", scale: 100, units: "m"},
		6:   {name: "speed", scale: 1000, units: "m/s"},
		7:   {name: "power", units: "watts"},
		9:   {name: "grade", scale: 100, units: "%"},
		10:  {name: "resistance"},
		13:  {name: "temperature", units: "C"},
		29:  {name: "accumulated_power", units: "watts"},
		31:  {name: "gps_accuracy", units: "m"},
		32:  {name: "vertical_speed", scale: 1000, units: "m/s"},
		33:  {name: "calories", units: "kcal"},
		39:  {name: "vertical_oscillation", scale: 10, units: "mm"},
		40:  {name: "stance_time_percent", scale: 100, units: "%"},
		41:  {name: "stance_time", scale: 10, units: "ms"},
		42:  {name: "activity_type", enum: activityTypeNames},
		43:  {name: "left_torque_effectiveness", scale: 2, units: "%"},
		44:  {name: "right_torque_effectiveness", scale: 2, units: "%"},
		45:  {name: "left_pedal_smoothness", scale: 2, units: "%"},
		46:  {name: "right_pedal_smoothness", scale: 2, units: "%"},
		53:  {name: "fractional_cadence", scale: 128, units: "rpm"},
		73:  {name: "enhanced_speed", scale: 1000, units: "m/s"},
		78:  {name: "enhanced_altitude", scale: 5, offset: 500, units: "m"},
		81:  {name: "battery_soc", scale: 2, units: "%"},
	},
	mesgNumEvent: { // event
		253: {name: "timestamp", isTime: true},
		0:   {name: "event", enum: eventNames},
		1:   {name: "event_type", enum: eventTypeNames},
		2:   {name: "data16"},
		3:   {name: "data"},
		4:   {name: "event_group"},
	},
	mesgNumDeviceInfo: { // device_info
		253: {name: "timestamp", isTime: true},
		0:   {name: "device_index"},
		1:   {name: "device_type"},
		2:   {name: "manufacturer", enum: manufacturerNames},
		3:   {name: "serial_number"},
		4:   {name: "product"},
		5:   {name: "software_version", scale: 100},
		6:   {name: "hardware_version"},
		10:  {name: "battery_voltage", scale: 256, units: "V"},
		11:  {name: "battery_status"},
		27:  {name: "product_name"},
	},
	mesgNumWorkout: { // workout
		4:  {name: "sport", enum: sportNames},
		5:  {name: "capabilities"},
		6:  {name: "num_valid_steps"},
		8:  {name: "wkt_name"},
		11: {name: "sub_sport", enum: subSportNames},
	},
	mesgNumWorkoutStep: { // workout_step
		254: {name: "message_index"},
		0:   {name: "wkt_step_name"},
		1:   {name: "duration_type"},
		2:   {name: "duration_value"},
		3:   {name: "target_type"},
		4:   {name: "target_value"},
		5:   {name: "custom_target_value_low"},
		6:   {name: "custom_target_value_high"},
		7:   {name: "intensity", enum: intensityNames},
	},
	mesgNumActivity: { // activity
		253: {name: "timestamp", isTime: true},
		0:   {name: "total_timer_time", scale: 1000, units: "s"},
		1:   {name: "num_sessions"},
		2:   {name: "type"},
		3:   {name: "event", enum: eventNames},
		4:   {name: "event_type", enum: eventTypeNames},
		5:   {name: "local_timestamp"},
	},
	mesgNumFieldDescription: { // field_description
		0:  {name: "developer_data_index"},
		1:  {name: "field_definition_number"},
		2:  {name: "fit_base_type_id"},
		3:  {name: "field_name"},
		6:  {name: "scale"},
		7:  {name: "offset"},
		8:  {name: "units"},
		14: {name: "native_mesg_num"},
		15: {name: "native_field_num"},
	},
	mesgNumDeveloperDataID: { // developer_data_id
		0: {name: "application_id"},
		1: {name: "developer_data_index"},
		3: {name: "application_version"},
	},
}

// globalMessageName resolves a global message number to its profile name,
// falling back to a synthetic "global_<n>" for numbers the profile does not
// carry.
func globalMessageName(global uint16) string {
	name := fmt.Sprint(tfit.MesgNum(global))
	if strings.HasPrefix(name, "MesgNum(") {
		return fmt.Sprintf("global_%d", global)
	}
	return name
}

func fieldName(global uint16, num uint8) string {
	if num == fieldNumTimestamp {
		return "timestamp"
	}
	if specs, ok := profile[global]; ok {
		if spec, ok := specs[num]; ok {
			return spec.name
		}
	}
	return fmt.Sprintf("field_%d", num)
}
