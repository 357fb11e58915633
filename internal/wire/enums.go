package wire

import "strconv"

var categoryNames = map[int32]string{
	0:  "VEHICLE_BREAKDOWN",
	1:  "ACCIDENT",
	2:  "NO_DRIVER",
	3:  "ASSAULT",
	4:  "WEATHER",
	5:  "VEHICLE_OFF_THE_ROAD",
	6:  "SEIZURE",
	7:  "ITS_SYSTEM_ERROR",
	8:  "OTHER_DRIVER_ERROR",
	9:  "TOO_MANY_PASSENGERS",
	10: "STRIKE",
	11: "OTHER",
	12: "EARLIER_DISRUPTION",
	13: "NO_TRAFFIC_DISRUPTION",
	14: "TRACK_BLOCKED",
	15: "STAFF_DEFICIT",
	16: "DISTURBANCE",
	17: "VEHICLE_DEFICIT",
	18: "ROAD_CLOSED",
	19: "ROAD_TRENCH",
	20: "TRACK_MAINTENANCE",
	21: "TRAFFIC_ACCIDENT",
	22: "TRAFFIC_JAM",
	23: "MEDICAL_INCIDENT",
	24: "WEATHER_CONDITIONS",
	25: "TECHNICAL_FAILURE",
	26: "TEST",
	27: "ROAD_MAINTENANCE",
	28: "SWITCH_FAILURE",
	29: "STATE_VISIT",
	30: "POWER_FAILURE",
	31: "MISPARKED_VEHICLE",
	32: "PUBLIC_EVENT",
	33: "SERVICE_DISRUPTION",
}

var impactNames = map[int32]string{
	0:  "CANCELLED",
	1:  "DELAYED",
	2:  "DEVIATING_SCHEDULE",
	3:  "DISRUPTION_ROUTE",
	4:  "IRREGULAR_DEPARTURES",
	5:  "POSSIBLE_DEVIATIONS",
	6:  "POSSIBLE_IRREGULAR_DEPARTURES",
	7:  "REDUCED_TRANSPORT",
	8:  "RETURNING_TO_NORMAL",
	9:  "VENDING_MACHINE_OUT_OF_ORDER",
	10: "NULL",
	11: "OTHER",
	12: "NO_TRAFFIC_IMPACT",
	13: "UNKNOWN",
	14: "REDUCED_BIKE_PARK_CAPACITY",
}

var priorityNames = map[int32]string{
	1: "INFO",
	2: "WARNING",
	3: "SEVERE",
}

// enumName renders an enum number by name. Numbers the table does not know
// render as their decimal form, the same way protobuf-go prints them.
func enumName(names map[int32]string, v int32) string {
	if n, ok := names[v]; ok {
		return n
	}
	return strconv.FormatInt(int64(v), 10)
}
