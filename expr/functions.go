package expr

// knownFunctions lists the function names accepted by the target engine.
var knownFunctions = map[string]bool{}

func init() {
	for _, group := range [][]string{
		// math
		{"abs", "acos", "asin", "atan", "atan2", "azimuth", "ceil", "clamp", "cos", "degrees",
			"exp", "floor", "inclination", "ln", "log", "log10", "max", "min", "pi", "radians",
			"rand", "randf", "round", "scale_linear", "scale_exp", "scale_polynomial", "sin",
			"sqrt", "tan"},
		// conversion
		{"from_base64", "hash", "md5", "sha256", "to_base64", "to_bool", "to_date",
			"to_datetime", "to_decimal", "to_dm", "to_dms", "to_int", "to_interval", "to_real",
			"to_string", "to_time"},
		// conditionals
		{"coalesce", "if", "nullif", "try", "regexp_match"},
		// string
		{"ascii", "char", "concat", "contains", "format", "format_number", "left", "length",
			"lower", "lpad", "ltrim", "regexp_replace", "regexp_substr", "regexp_matches",
			"replace", "right", "rpad", "rtrim", "strpos", "substr", "title", "trim", "upper",
			"wordwrap", "soundex", "levenshtein", "longest_common_substring",
			"hamming_distance", "unaccent"},
		// date and time
		{"age", "day", "day_of_week", "epoch", "datetime_from_epoch", "format_date", "hour",
			"make_date", "make_datetime", "make_interval", "make_time", "minute", "month",
			"now", "second", "week", "year"},
		// record and attributes
		{"attribute", "attributes", "current_value", "current_parent_value", "display_expression",
			"get_feature", "get_feature_by_id", "is_attribute_valid", "is_feature_valid",
			"is_selected", "maptip", "num_selected", "uuid", "represent_value",
			"represent_attributes", "sqlite_fetch_and_increment", "eval", "eval_template",
			"env", "var", "layer_property", "decode_uri", "is_layer_visible"},
		// variables
		{"with_variable", "is_empty", "is_empty_or_null"},
		// arrays and maps
		{"array", "array_all", "array_append", "array_cat", "array_contains", "array_count",
			"array_distinct", "array_filter", "array_find", "array_first", "array_foreach",
			"array_get", "array_insert", "array_intersect", "array_last", "array_length",
			"array_majority", "array_max", "array_mean", "array_median", "array_min",
			"array_minority", "array_prepend", "array_prioritize", "array_remove_all",
			"array_remove_at", "array_replace", "array_reverse", "array_slice", "array_sort",
			"array_sum", "array_to_string", "generate_series", "geometries_to_array",
			"regexp_matches", "string_to_array",
			"from_json", "to_json", "hstore_to_map", "map_to_hstore", "json_to_map",
			"map_to_json", "map", "map_akeys", "map_avals", "map_concat", "map_delete",
			"map_exist", "map_get", "map_insert", "map_prefix_keys", "map_to_html_table",
			"map_to_html_dl", "url_to_map", "map_keys", "map_values"},
		// aggregates
		{"aggregate", "relation_aggregate", "array_agg", "collect", "count", "count_distinct",
			"count_missing", "iqr", "majority", "max_length", "maximum", "mean", "median",
			"min_length", "minimum", "minority", "q1", "q3", "range", "stdev", "sum",
			"concatenate", "concatenate_unique"},
		// geometry
		{"area", "bounds",
			"bounds_height", "bounds_width", "buffer", "centroid", "closest_point",
			"collect_geometries", "convex_hull", "difference",
			"disjoint", "distance", "end_point", "extent", "geom_from_gml", "geom_from_wkb",
			"geom_from_wkt", "geom_to_wkb", "geom_to_wkt", "geometry", "geometry_n",
			"geometry_type", "intersection", "intersects", "intersects_bbox", "is_closed",
			"is_empty", "is_multipart", "is_valid", "length", "length3d", "make_circle",
			"make_line", "make_point", "make_point_m", "make_polygon", "make_rectangle_3points",
			"make_square", "make_triangle", "num_geometries", "num_points", "overlaps",
			"perimeter", "point_n", "point_on_surface", "project", "start_point",
			"sym_difference", "touches", "transform", "translate", "union", "within",
			"x", "x_max", "x_min", "y", "y_max", "y_min", "z", "m"},
		// fields, files and form
		{"base_file_name", "exif", "file_exists", "file_name", "file_path", "file_size",
			"file_suffix", "layer_property", "raster_value", "raster_statistic"},
	} {
		for _, name := range group {
			knownFunctions[name] = true
		}
	}
}
